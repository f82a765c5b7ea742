package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/docs"
	"github.com/etnz/oneshot/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is a South African freelancer or small business owner. They come to understand
			how to split their income between their own name and a Small Business Corporation, and
			what it costs in tax.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Amounts are in Rand. Never present a figure the experts did not compute.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns the expert grounded on Google Search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert of South African tax law, aware of the latest SARS rules,
		of the conditions to qualify as a Small Business Corporation and of the filing deadlines.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in South African taxation. You leverage Google Search to
			ground your assertions in official SARS publications, and you cite the tax year they apply to.
				`}}},
		},
	}
}

// NewTaxAdvisor returns the expert that computes taxes with opt.
func NewTaxAdvisor(opt oneshot.Optimizer) *Expert {
	lib := []Function{OptimalSplit(opt), ScheduleTax(opt), Topic()}

	return &Expert{
		Name: "TaxAdvisor",
		Description: `This is the TaxAdvisor. It computes the tax owed under the Individual and
		SBC schedules, and the split of an income between both that minimizes the total tax.
		It also knows the documentation of the oneshot tool.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a tax advisor. You use the Tools to compute every figure you give,
				you never compute taxes yourself.
				You are part of a team of experts, yours is everything about the tax owed on an income.
				They might ask you questions with approximate amounts like "a million" or "R500k",
				figure out the amount they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

var incomeSchema = &genai.Schema{
	Type:        genai.TypeString,
	Description: `The annual income in Rand, like "1000000" or "R1 000 000".`,
}

// OptimalSplit returns the function running opt on an income.
func OptimalSplit(opt oneshot.Optimizer) *Func {
	const name = "optimal_split"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `optimal_split finds the allocation of an income between the Individual and the
			SBC schedules with the lowest total tax. It also gives the tax if everything was allocated
			to a single schedule, and what the split saves.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"income": incomeSchema},
				Required:   []string{"income"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the optimal split.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			income, err := incomeArg(args)
			if err != nil {
				return failure(id, name, err)
			}
			res, err := opt.Split(income)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, renderer.RenderSplit(res, renderer.SplitRenderOptions{}))
		},
	}
}

// ScheduleTax returns the function evaluating one of the schedules of opt.
func ScheduleTax(opt oneshot.Optimizer) *Func {
	const name = "schedule_tax"
	schedules := map[string]oneshot.Schedule{
		"individual": opt.Individual,
		"sbc":        opt.SBC,
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `schedule_tax computes the tax owed on an income under a single schedule.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"schedule": {
						Type:        genai.TypeString,
						Description: "The schedule to apply.",
						Enum:        []string{"individual", "sbc"},
					},
					"income": incomeSchema,
				},
				Required: []string{"schedule", "income"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The tax owed, and the effective rate.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			which, err := stringArg(args, "schedule")
			if err != nil {
				return failure(id, name, err)
			}
			s, ok := schedules[strings.ToLower(which)]
			if !ok {
				return failure(id, name, fmt.Errorf("unknown schedule %q, must be individual or sbc", which))
			}
			income, err := incomeArg(args)
			if err != nil {
				return failure(id, name, err)
			}
			tax := s.Tax(income)
			rate := oneshot.Percent(tax.Div(income).Shift(2).InexactFloat64())
			return success(id, name, fmt.Sprintf("%s tax on %s is %s, an effective rate of %s.", s.Name, oneshot.R(income), oneshot.R(tax), rate))
		},
	}
}

// Topic returns the function reading the help topics.
func Topic() *Func {
	const name = "topic"
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `topic returns a topic of the oneshot documentation, "readme" lists them all.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic to read.",
						Enum:        append([]string{"readme"}, topics...),
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown content of the topic.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic")
			if err != nil {
				return failure(id, name, err)
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, content)
		},
	}
}

// incomeArg reads the "income" argument, models may send it as a number.
func incomeArg(args map[string]any) (decimal.Decimal, error) {
	switch v := args["income"].(type) {
	case string:
		return oneshot.ParseIncome(v)
	case float64:
		return oneshot.ParseIncome(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		return decimal.Zero, fmt.Errorf("missing argument %q", "income")
	default:
		return decimal.Zero, fmt.Errorf("argument %q: invalid type got %T, expected string", "income", v)
	}
}
