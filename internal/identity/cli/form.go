package cli

import "github.com/rswauth/authcore/internal/identity/models"

// form runs a sequence of prompts and keeps the first error; once it is
// set the remaining prompts are skipped.
type form struct {
	a   *App
	err error
}

func (f *form) text(prompt string) string {
	if f.err != nil {
		return ""
	}
	s, err := GetSimpleText(f.a.reader, prompt, f.a.out)
	f.err = err
	return s
}

// textOr returns current when the answer is empty.
func (f *form) textOr(prompt, current string) string {
	if s := f.text(prompt + " [" + current + "]"); s != "" {
		return s
	}
	return current
}

func (f *form) list(prompt string) []string {
	if f.err != nil {
		return nil
	}
	items, err := GetList(f.a.reader, prompt, f.a.out)
	f.err = err
	return items
}

func (f *form) password(prompt string) string {
	if f.err != nil {
		return ""
	}
	pw, err := GetPassword(prompt, f.a.out)
	f.err = err
	return pw
}

func (f *form) newPassword() string {
	if f.err != nil {
		return ""
	}
	pw, err := GetNewPassword(f.a.out)
	f.err = err
	return pw
}

// roles fills the role list of u that the directory's mode uses.
func (f *form) roles(u *models.User, mode models.RoleMode) {
	if mode == models.RoleModeAuthorities {
		u.Authorities = f.list("Authorities (comma separated)")
		return
	}
	names := f.list("Groups (comma separated)")
	if f.err != nil {
		return
	}
	u.Groups, f.err = models.ParseGroups(names)
}
