package models

import "time"

// User is a registered account. The password hash lives only in the store
// and is never part of this struct.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomInfo is the public view of a live room.
type RoomInfo struct {
	ID           string `json:"id"`
	Participants int64  `json:"participants"`
}
