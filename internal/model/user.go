package model

// RegisteredUser is one entry of the user registry. Password holds a bcrypt
// hash; entries written by older clients may still hold plaintext until the
// next successful login rewrites them.
type RegisteredUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Mobile   string `json:"mobile,omitempty"`
}

// User is the logged-in session user.
type User struct {
	Username string `json:"username"`
	Mobile   string `json:"mobile,omitempty"`
}

// AdminProfile is the shop metadata printed on receipts.
type AdminProfile struct {
	ShopName      string `json:"shopName"`
	AdminName     string `json:"adminName"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
	ShopLogo      string `json:"shopLogo,omitempty"`
}
