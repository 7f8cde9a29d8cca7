package response

type Verified struct {
	Verified bool   `json:"verified"`
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
