package request

type Claim struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

type CalculateClaim struct {
	Username string `json:"username"`
	Post     string `json:"post"`
	Date     string `json:"date"`
}
