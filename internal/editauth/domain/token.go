package domain

// UserToken is what a successful issuance hands back: the user the token was
// minted for and the compact signed JWT. Nothing is retained server side.
type UserToken struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}
