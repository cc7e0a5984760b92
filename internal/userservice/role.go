package userservice

type Role string

// RoleUser is given to every registered account.
const RoleUser Role = "user"

func (u *User) IsAnonymous() bool {
	return u == nil || u == &AnonymousUser || u.ID == ""
}
