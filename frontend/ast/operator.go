package ast

// Operator is a binary operator as resolved by the precedence stage.
type Operator int

const (
	Plus Operator = iota
	Minus
	Star
	Slash
	Percent
	Caret
	EqualEqual
	NotEqual
	LessThan
	LessThanOrEq
	GreaterThan
	GreaterThanOrEq
	And
	Or
	// Pizza is the pipe operator: `a |> f` applies f with a as its last
	// argument. It is the only operator that can denote a tail call.
	Pizza
)

var operatorNames = map[Operator]string{
	Plus:            "+",
	Minus:           "-",
	Star:            "*",
	Slash:           "/",
	Percent:         "%",
	Caret:           "^",
	EqualEqual:      "==",
	NotEqual:        "!=",
	LessThan:        "<",
	LessThanOrEq:    "<=",
	GreaterThan:     ">",
	GreaterThanOrEq: ">=",
	And:             "&&",
	Or:              "||",
	Pizza:           "|>",
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "?"
}
