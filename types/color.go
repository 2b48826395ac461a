package types

import "time"

// ColorRecord is a favorite color posted by a user. Records are immutable.
type ColorRecord struct {
	// ID is minted by the store's atomic counter and increases with every post.
	ID int64 `json:"id"`

	// Author is the username of the session that posted the record.
	Author string `json:"author"`

	Color   string `json:"color"`
	Comment string `json:"comment"`

	// CreatedAt is stamped by the server when the record is stored.
	CreatedAt time.Time `json:"createdAt"`
}

// ColorInput holds the client-controlled fields of a new record.
type ColorInput struct {
	Color   string `json:"color"`
	Comment string `json:"comment"`
}

// ColorView is a record decorated for one viewer.
type ColorView struct {
	ColorRecord
	IsFavorite bool `json:"isFavorite"`
}

// MyPage lists the records a user posted and the records they favorited.
type MyPage struct {
	MyPosts     []ColorRecord `json:"myPosts"`
	MyFavorites []ColorRecord `json:"myFavorites"`
}
