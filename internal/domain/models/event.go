package models

type Event struct {
	Id      string
	Type    string
	Payload string
}
