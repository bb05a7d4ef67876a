package models

import "time"

// Token scope strings granted by the user's Micropub authorization.
const (
	ScopeCreate = "create"
	ScopeDelete = "delete"
)

var DefaultVisibilityOptions = []string{VisibilityPublic, VisibilityUnlisted, VisibilityPrivate}

type User struct {
	ID       int64  `bson:"_id" json:"id"`
	Slug     string `bson:"slug" json:"slug"` // URL and filesystem safe, used in permalinks and cache file names
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // bcrypt hash
	// Micropub settings. An empty endpoint means publishing is disabled for
	// this user. The token is AES-GCM encrypted at rest.
	MicropubEndpoint     string    `bson:"micropubEndpoint,omitempty" json:"micropubEndpoint,omitempty"`
	MicropubToken        string    `bson:"micropubToken,omitempty" json:"-"`
	TokenScope           []string  `bson:"tokenScope,omitempty" json:"tokenScope,omitempty"`
	LastMicropubResponse string    `bson:"lastMicropubResponse,omitempty" json:"-"`
	VisibilityOptions    []string  `bson:"visibilityOptions,omitempty" json:"visibilityOptions,omitempty"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
}

// SupportsMicropub reports whether publishing should be attempted for this
// user's posts.
func (u *User) SupportsMicropub() bool {
	return u.MicropubEndpoint != ""
}

func (u *User) HasScope(scope string) bool {
	for _, s := range u.TokenScope {
		if s == scope {
			return true
		}
	}
	return false
}

// Visibilities returns the visibility options offered on the post form.
func (u *User) Visibilities() []string {
	if len(u.VisibilityOptions) == 0 {
		return DefaultVisibilityOptions
	}
	return u.VisibilityOptions
}
