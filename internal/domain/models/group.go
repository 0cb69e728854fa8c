package models

type Group struct {
	Id          int64
	Title       string
	Slug        string
	Description string
}
