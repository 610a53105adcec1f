package model

import "regexp"

var emailPattern = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)

func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
