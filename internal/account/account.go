package account

import (
	"time"

	"github.com/google/uuid"
)

// GlobalScope is the zero scope identifier. Accounts created without an
// explicit scope live here.
var GlobalScope = uuid.Nil

// ServiceURLs is the fixed set of capability endpoints attached to an
// account. Keys the original grid software carried as an open map are
// modeled as named fields; absent endpoints stay empty.
type ServiceURLs struct {
	Home       string `json:"HomeURI"`
	Gatekeeper string `json:"GatekeeperURI"`
	Inventory  string `json:"InventoryServerURI"`
	Asset      string `json:"AssetServerURI"`
}

// Account represents a directory record.
type Account struct {
	PrincipalID uuid.UUID   `json:"principal_id"`
	ScopeID     uuid.UUID   `json:"scope_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	UserFlags   int         `json:"user_flags"`
	UserLevel   int         `json:"user_level"`
	UserTitle   string      `json:"user_title"`
	ServiceURLs ServiceURLs `json:"service_urls"`
	Created     time.Time   `json:"created"`
}

// New creates an account with a freshly assigned principal ID.
func New(scopeID uuid.UUID, firstName, lastName, email string) *Account {
	return &Account{
		PrincipalID: uuid.New(),
		ScopeID:     scopeID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Created:     time.Now(),
	}
}

// Name is a legacy demo record kept alongside the directory. It has no
// identity key; the (first, last) pair overwrites on store.
type Name struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Food      string `json:"food"`
}
