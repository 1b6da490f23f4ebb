package models

import "time"

type User struct {
	UserId       string   `json:"userId"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Blogs        []string `json:"blogs"`
	Created      int64    `json:"-"`
}

// UserProfile is the public subset of a User returned alongside owned blogs.
type UserProfile struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u User) Profile() UserProfile {
	return UserProfile{UserId: u.UserId, Name: u.Name, Email: u.Email}
}

type Blog struct {
	BlogId    string    `json:"blogId"`
	UserId    string    `json:"userId"`
	UserEmail string    `json:"user"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	Img       string    `json:"img"`
	Date      time.Time `json:"date"`
}

// BlogUpdate holds the mutable blog fields. A nil field was not supplied.
type BlogUpdate struct {
	Title *string `json:"title"`
	Desc  *string `json:"desc"`
	Img   *string `json:"img"`
}

func (u BlogUpdate) IsEmpty() bool {
	return u.Title == nil && u.Desc == nil && u.Img == nil
}
