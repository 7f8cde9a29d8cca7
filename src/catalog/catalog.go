package catalog

import (
	"errors"
	"strings"
)

// Reward granted for every verified post
const DefaultReward = 100

var ErrMissingData = errors.New("missing required data")

// Post waiting for a proof of its author
type Tweet struct {
	Id              string `json:"id"`
	Content         string `json:"content"`
	Username        string `json:"username"`
	ClaimableAmount int64  `json:"claimableAmount"`
	IsVerified      bool   `json:"isVerified"`
}

// Account whose posts can be bought
type User struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Price    int64  `json:"price"`
}

var tweets = []Tweet{
	{Id: "1", Content: "tweet this", Username: "Matteo_Mer", ClaimableAmount: 100},
	{Id: "2", Content: "Judson's Abstract Algebra appreciation tweet\n\nhttp://abstract.ups.edu", Username: "Matteo_Mer", ClaimableAmount: 100},
	{Id: "3", Content: "Great experience with decentralized applications today. The future is here! #DeFi", Username: "bob_crypto", ClaimableAmount: 100},
	{Id: "4", Content: "Check out this revolutionary protocol for Web3 identity verification! #Web3", Username: "bob_crypto", ClaimableAmount: 60},
}

var users = []User{
	{Id: 1, Name: "John Doe", Username: "@johndoe", Price: 100},
	{Id: 2, Name: "Jane Smith", Username: "@janesmith", Price: 10},
	{Id: 3, Name: "Bob Johnson", Username: "@bobjohnson", Price: 1},
	{Id: 4, Name: "Alice Brown", Username: "@alicebrown", Price: 100},
}

// Posts of the user, username is compared case insensitively
func TweetsToVerify(username string) (out []Tweet) {
	out = make([]Tweet, 0)
	for _, tweet := range tweets {
		if strings.EqualFold(tweet.Username, username) {
			out = append(out, tweet)
		}
	}
	return
}

func Users() []User {
	out := make([]User, len(users))
	copy(out, users)
	return out
}

type RewardRequest struct {
	Username string `json:"username"`
	Post     string `json:"post"`
	Date     string `json:"date"`
}

func CalculateReward(req *RewardRequest) (amount int64, err error) {
	if req.Username == "" || req.Post == "" {
		err = ErrMissingData
		return
	}
	return DefaultReward, nil
}
