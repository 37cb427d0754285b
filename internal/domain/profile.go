package domain

// Profile is the authoritative "who is this" record for one identity
// class, decoded at the network boundary. A non-nil profile means the
// class credentials were valid as of the last backend call.
type Profile interface {
	IdentityClass() Class
	IdentityID() string
	PhoneNumber() string
}

// Address is a delivery address on a user profile.
type Address struct {
	ID       string `json:"_id"`
	Label    string `json:"label"`
	Details  string `json:"details"`
	Selected bool   `json:"selected"`
}

// UserProfile is the profile shape of the ordering role.
type UserProfile struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Addresses []Address `json:"addresses"`
}

func (p *UserProfile) IdentityClass() Class { return ClassUser }
func (p *UserProfile) IdentityID() string   { return p.ID }
func (p *UserProfile) PhoneNumber() string  { return p.Number }

// MenuSummary is a menu entry on a mom profile.
type MenuSummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Active bool   `json:"isActive"`
}

// MomProfile is the profile shape of the cooking role.
type MomProfile struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Number      string        `json:"number"`
	Description string        `json:"description"`
	Address     string        `json:"address"`
	Menus       []MenuSummary `json:"menus"`
}

func (p *MomProfile) IdentityClass() Class { return ClassMom }
func (p *MomProfile) IdentityID() string   { return p.ID }
func (p *MomProfile) PhoneNumber() string  { return p.Number }
