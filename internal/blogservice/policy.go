package blogservice

import (
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

func authorize(user *userservice.User, blog *Blog, action string) error {
	if user.IsAnonymous() {
		return common.ErrAuthenticationRequired
	}

	if user.ID != blog.AuthorID {
		return common.AuthorizationError{Action: action, Resource: "blog"}
	}

	return nil
}

// CanEdit allows only the author of a post to change it.
func CanEdit(user *userservice.User, blog *Blog) error {
	return authorize(user, blog, "edit")
}

func CanDelete(user *userservice.User, blog *Blog) error {
	return authorize(user, blog, "delete")
}
