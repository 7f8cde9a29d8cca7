package request

import "encoding/json"

type Register struct {
	Username string `json:"username"`
}

type RegisterVerify struct {
	UserId       string          `json:"userId"`
	Verification json.RawMessage `json:"verification"`
}

type Login struct {
	Username string `json:"username"`
}

type LoginVerify struct {
	UserId   string          `json:"userId"`
	Response json.RawMessage `json:"response"`
}
