package service

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"iqfieldbot/internal/model"
)

// formulaTag names the pure answer function of a template. Templates
// carry a tag instead of a closure so the registry stays plain data.
type formulaTag string

const (
	formulaAdd       formulaTag = "add"       // a + b
	formulaSub       formulaTag = "sub"       // a - b
	formulaMul       formulaTag = "mul"       // a * b
	formulaSqrt      formulaTag = "sqrt"      // √a, a drawn from perfect squares
	formulaLinear    formulaTag = "linear"    // solve ax + b = c for x
	formulaQuadratic formulaTag = "quadratic" // f(d) for f(x) = ax² + bx + c
	formulaFixed     formulaTag = "fixed"     // no operands, fixed answer
)

// questionTemplate is one parameterized question pattern. Prompt uses
// %d verbs matching the formula's arity; fixed templates have none.
type questionTemplate struct {
	Prompt  string
	Type    model.AnswerType
	Formula formulaTag
	Answer  string   // formulaFixed only
	Options []string // multiple choice only
}

// perfectSquares are the pre-validated square-root operands; every
// entry has an exact integer root.
var perfectSquares = []int{4, 9, 16, 25, 36, 49, 64, 81, 100, 121, 144}

// templateRegistry maps field -> difficulty -> templates. Only math
// and logic carry their own sets; Generate falls back to the math set
// for every other field, which keeps those pools gradable until real
// per-field templates are authored.
var templateRegistry = map[model.Field]map[model.Difficulty][]questionTemplate{
	model.FieldMath: {
		model.DifficultyEasy: {
			{Prompt: "What is %d + %d?", Type: model.AnswerTypeNumber, Formula: formulaAdd},
			{Prompt: "What is %d × %d?", Type: model.AnswerTypeNumber, Formula: formulaMul},
			{Prompt: "What is %d - %d?", Type: model.AnswerTypeNumber, Formula: formulaSub},
		},
		model.DifficultyMedium: {
			{Prompt: "Solve for x: %dx + %d = %d", Type: model.AnswerTypeNumber, Formula: formulaLinear},
			{Prompt: "What is the square root of %d?", Type: model.AnswerTypeNumber, Formula: formulaSqrt},
		},
		model.DifficultyHard: {
			{Prompt: "If f(x) = %dx² + %dx + %d, what is f(%d)?", Type: model.AnswerTypeNumber, Formula: formulaQuadratic},
		},
	},
	model.FieldLogic: {
		model.DifficultyEasy: {
			{Prompt: "Complete the sequence: 2, 4, 6, 8, ?", Type: model.AnswerTypeNumber, Formula: formulaFixed, Answer: "10"},
			{Prompt: "What comes next: A, B, C, D, ?", Type: model.AnswerTypeMultipleChoice, Formula: formulaFixed, Answer: "E",
				Options: []string{"E", "F", "G", "H"}},
		},
		model.DifficultyMedium: {
			{Prompt: "If all roses are flowers and all flowers are plants, then all roses are plants. True or False?",
				Type: model.AnswerTypeMultipleChoice, Formula: formulaFixed, Answer: "True",
				Options: []string{"True", "False"}},
		},
		model.DifficultyHard: {
			{Prompt: "In a logic puzzle with 5 people, if A is taller than B, B is taller than C, C is taller than D, and D is taller than E, who is the shortest?",
				Type: model.AnswerTypeText, Formula: formulaFixed, Answer: "E"},
		},
	},
}

// TemplateBank deterministically generates gradable questions from the
// registry, parameterized by random operands.
type TemplateBank struct {
	rng *rand.Rand
}

func NewTemplateBank() *TemplateBank {
	return &TemplateBank{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate builds count questions for (field, difficulty). Ids are
// sequence-numbered per batch; callers must treat a batch as a unit and
// never mix batches for one (field, difficulty) bucket.
func (b *TemplateBank) Generate(field model.Field, difficulty model.Difficulty, count int) []model.Question {
	templates := b.templatesFor(field, difficulty)
	questions := make([]model.Question, 0, count)

	for i := 0; i < count; i++ {
		tpl := templates[b.rng.Intn(len(templates))]
		operands := b.sampleOperands(tpl.Formula, difficulty)

		questions = append(questions, model.Question{
			ID:            fmt.Sprintf("%s_%s_%d", field, difficulty, i+1),
			Field:         field,
			Difficulty:    difficulty,
			Prompt:        renderPrompt(tpl.Prompt, operands),
			Options:       tpl.Options,
			Type:          tpl.Type,
			CorrectAnswer: answerFor(tpl, operands),
			Explanation:   fmt.Sprintf("This is a %s %s question.", difficulty, field),
			Operands:      operands,
		})
	}
	return questions
}

// templatesFor resolves the template set, applying the documented
// math fallback for fields without their own registry entry.
func (b *TemplateBank) templatesFor(field model.Field, difficulty model.Difficulty) []questionTemplate {
	byDifficulty, ok := templateRegistry[field]
	if !ok {
		byDifficulty = templateRegistry[model.FieldMath]
	}
	templates, ok := byDifficulty[difficulty]
	if !ok {
		templates = byDifficulty[model.DifficultyEasy]
	}
	return templates
}

// sampleOperands draws operands in the documented per-difficulty
// ranges. Square roots draw only from perfectSquares so the answer is
// always an integer.
func (b *TemplateBank) sampleOperands(tag formulaTag, difficulty model.Difficulty) []int {
	switch tag {
	case formulaAdd, formulaSub, formulaMul:
		return []int{b.intn(1, 50), b.intn(1, 50)}
	case formulaSqrt:
		return []int{perfectSquares[b.rng.Intn(len(perfectSquares))]}
	case formulaLinear:
		return []int{b.intn(1, 10), b.intn(1, 20), b.intn(10, 50)}
	case formulaQuadratic:
		return []int{b.intn(1, 5), b.intn(1, 10), b.intn(1, 10), b.intn(1, 5)}
	default:
		return nil
	}
}

// intn samples uniformly from [lo, hi] inclusive
func (b *TemplateBank) intn(lo, hi int) int {
	return lo + b.rng.Intn(hi-lo+1)
}

func renderPrompt(format string, operands []int) string {
	if len(operands) == 0 {
		return format
	}
	args := make([]interface{}, len(operands))
	for i, v := range operands {
		args[i] = v
	}
	return fmt.Sprintf(format, args...)
}

// answerFor computes the canonical answer string for a template and
// its sampled operands. The linear solve prefers the exact integer
// root and falls back to the shortest decimal representation.
func answerFor(tpl questionTemplate, ops []int) string {
	switch tpl.Formula {
	case formulaAdd:
		return strconv.Itoa(ops[0] + ops[1])
	case formulaSub:
		return strconv.Itoa(ops[0] - ops[1])
	case formulaMul:
		return strconv.Itoa(ops[0] * ops[1])
	case formulaSqrt:
		return strconv.Itoa(int(math.Sqrt(float64(ops[0]))))
	case formulaLinear:
		a, bb, c := ops[0], ops[1], ops[2]
		if (c-bb)%a == 0 {
			return strconv.Itoa((c - bb) / a)
		}
		return strconv.FormatFloat(float64(c-bb)/float64(a), 'g', -1, 64)
	case formulaQuadratic:
		a, bb, c, d := ops[0], ops[1], ops[2], ops[3]
		return strconv.Itoa(a*d*d + bb*d + c)
	default:
		return tpl.Answer
	}
}
