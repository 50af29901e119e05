package domain

type UserRef struct {
	ID   string
	Name string
}

type GuildRef struct {
	ID   string
	Name string
}

// Identity is the credential for an authenticated session: the capability
// token plus the user and guild it belongs to. It is replaced wholesale on
// token refresh, never patched field by field.
type Identity struct {
	Token string
	User  UserRef
	Guild GuildRef
}

func (i Identity) Valid() bool {
	return i.Token != "" && i.User.ID != ""
}
