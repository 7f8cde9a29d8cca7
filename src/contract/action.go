package contract

import (
	"strings"

	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
)

type ActionKind string

const (
	ActionClaim    ActionKind = "claim"
	ActionRegister ActionKind = "register"
	ActionBuy      ActionKind = "buy"
)

// Action executed by the contract, each carries the contract input
type Action struct {
	Kind  ActionKind
	Input *hyle.ContractInput
}

func ParseActionKind(in string) (out ActionKind, err error) {
	out = ActionKind(strings.ToLower(strings.TrimSpace(in)))
	switch out {
	case ActionClaim, ActionRegister, ActionBuy:
		return
	default:
		return "", ErrUnknownAction
	}
}

func (self ActionKind) String() string {
	return string(self)
}
