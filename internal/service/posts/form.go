package posts

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

const (
	FieldText  = "text"
	FieldGroup = "group"

	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgNullChars     = "Null characters are not allowed."
	MsgInvalidText   = "Enter a valid text."
)

// Form binds submitted post fields. Text and Group keep raw values for
// redisplay, Group is the id of the chosen group or empty.
type Form struct {
	Text   string
	Group  string
	Groups []models.Group
	Errors map[string][]string

	bound bool
	text  string
	group *models.Group
}

// NewForm creates form with submitted values
func NewForm(text, group string) *Form {
	return &Form{
		Text:  text,
		Group: group,
		bound: true,
	}
}

// formFromPost creates unbound form filled with values of the post
func formFromPost(post models.Post) *Form {
	f := &Form{Text: post.Text}
	if post.Group != nil {
		f.Group = strconv.FormatInt(post.Group.Id, 10)
	}

	return f
}

// Validate checks submitted values against available groups. Unbound
// form is never valid and has no errors.
func (f *Form) Validate(groups []models.Group) bool {
	f.Groups = groups
	f.Errors = nil
	f.group = nil

	if !f.bound {
		return false
	}

	f.text = strings.TrimSpace(f.Text)
	switch {
	case f.text == "":
		f.addError(FieldText, MsgRequired)
	case !utf8.ValidString(f.text):
		f.addError(FieldText, MsgInvalidText)
	case strings.ContainsRune(f.text, 0):
		f.addError(FieldText, MsgNullChars)
	}

	if raw := strings.TrimSpace(f.Group); raw != "" {
		f.group = findGroup(groups, raw)
		if f.group == nil {
			f.addError(FieldGroup, MsgInvalidChoice)
		}
	}

	return f.Valid()
}

// Valid reports if the form is bound and has no errors
func (f *Form) Valid() bool {
	return f.bound && len(f.Errors) == 0
}

// Selected reports whether group with the id is the current choice
func (f *Form) Selected(id int64) bool {
	return strings.TrimSpace(f.Group) == strconv.FormatInt(id, 10)
}

// bind applies cleaned values to the post. Author is left untouched
func (f *Form) bind(post *models.Post) {
	post.Text = f.text
	post.Group = f.group
}

func (f *Form) addError(field, msg string) {
	if f.Errors == nil {
		f.Errors = make(map[string][]string)
	}
	f.Errors[field] = append(f.Errors[field], msg)
}

func findGroup(groups []models.Group, raw string) *models.Group {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	for i := range groups {
		if groups[i].Id == id {
			g := groups[i]
			return &g
		}
	}

	return nil
}
