package domain

// Session is the per-visitor state slot. Cart stays nil until the first add
// or login.
type Session struct {
	ID   string       `json:"-"`
	User *SessionUser `json:"user,omitempty"`
	Cart Cart         `json:"cart,omitempty"`
}

func (s *Session) EnsureCart() Cart {
	if s.Cart == nil {
		s.Cart = NewCart()
	}
	return s.Cart
}
