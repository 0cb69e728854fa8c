package models

import (
	"time"
)

type Post struct {
	Id      int64
	Text    string
	PubDate time.Time
	Author  User
	Group   *Group
}

// PostFilter narrows post listings. Zero fields are not applied
type PostFilter struct {
	GroupId  int64
	AuthorId int64
}
