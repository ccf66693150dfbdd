package engine

import (
	"fmt"
	"math/rand"
)

// Problem is one generated quiz question with a numeric answer.
type Problem struct {
	Question string
	Answer   int
}

const defaultProblemCount = 10

// GenerateProblems builds a question set for one game session. Math and money
// questions are generated arithmetically and scale with the kid's age; the
// other game types have no generator in the console.
func GenerateProblems(gameType string, age, count int) ([]Problem, error) {
	if count <= 0 {
		count = defaultProblemCount
	}

	var gen func(age int) Problem
	switch gameType {
	case "math":
		gen = mathProblem
	case "money":
		gen = moneyProblem
	default:
		return nil, validationf("no question generator for %q games", gameType)
	}

	problems := make([]Problem, count)
	for i := range problems {
		problems[i] = gen(age)
	}
	return problems, nil
}

func mathProblem(age int) Problem {
	if age < 9 {
		a := rand.Intn(10) + 1
		b := rand.Intn(10) + 1
		if rand.Intn(2) == 0 {
			return Problem{Question: fmt.Sprintf("%d + %d = ?", a, b), Answer: a + b}
		}
		if a < b {
			a, b = b, a
		}
		return Problem{Question: fmt.Sprintf("%d - %d = ?", a, b), Answer: a - b}
	}

	switch rand.Intn(3) {
	case 0:
		a := rand.Intn(50) + 10
		b := rand.Intn(50) + 10
		return Problem{Question: fmt.Sprintf("%d + %d = ?", a, b), Answer: a + b}
	case 1:
		a := rand.Intn(11) + 2
		b := rand.Intn(11) + 2
		return Problem{Question: fmt.Sprintf("%d x %d = ?", a, b), Answer: a * b}
	default:
		b := rand.Intn(9) + 2
		answer := rand.Intn(10) + 2
		return Problem{Question: fmt.Sprintf("%d / %d = ?", answer*b, b), Answer: answer}
	}
}

func moneyProblem(age int) Problem {
	if age < 9 {
		have := rand.Intn(10) + 1
		earn := rand.Intn(10) + 1
		return Problem{
			Question: fmt.Sprintf("You have %d coins and earn %d more. How many coins do you have?", have, earn),
			Answer:   have + earn,
		}
	}

	if rand.Intn(2) == 0 {
		cost := rand.Intn(80) + 10
		return Problem{
			Question: fmt.Sprintf("A toy costs $%d and you pay with $100. How much change do you get?", cost),
			Answer:   100 - cost,
		}
	}
	price := rand.Intn(15) + 5
	qty := rand.Intn(4) + 2
	return Problem{
		Question: fmt.Sprintf("Stickers cost $%d each. How much do %d stickers cost?", price, qty),
		Answer:   price * qty,
	}
}
