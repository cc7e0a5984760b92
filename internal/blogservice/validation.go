package blogservice

import (
	"github.com/google/uuid"
	"github.com/sushihentaime/quillpost/internal/common"
)

const maxTitleLength = 200

func validateTitle(v *common.Validator, title string) {
	v.Check(common.NotBlank(title), "title", "must be provided")
	v.Check(common.MaxChars(title, maxTitleLength), "title", "must not be more than 200 characters long")
}

// validateContent expects sanitized HTML. Markup alone does not count as content.
func validateContent(v *common.Validator, content string) {
	v.Check(PlainText(content) != "", "content", "must be provided")
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
