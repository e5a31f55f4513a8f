package recordform

import "spendo/internal/models"

type Category struct {
	Value string
	Label string
}

// Categories are the choices the form offers per record type. The server
// accepts any category text; only the form restricts it to these.
var Categories = map[models.RecordType][]Category{
	models.RecordTypeExpense: {
		{Value: "food", Label: "Food"},
		{Value: "transport", Label: "Transport"},
		{Value: "housing", Label: "Housing"},
		{Value: "entertainment", Label: "Entertainment"},
		{Value: "health", Label: "Health"},
		{Value: "education", Label: "Education"},
		{Value: "work", Label: "Work"},
		{Value: "utilities", Label: "Utilities"},
		{Value: "shopping", Label: "Shopping"},
		{Value: "other", Label: "Other"},
	},
	models.RecordTypeSavings: {
		{Value: "bank", Label: "Bank Deposit"},
		{Value: "cash", Label: "Cash Savings"},
		{Value: "invest", Label: "Investments"},
		{Value: "goal", Label: "Goal Savings"},
		{Value: "other", Label: "Other Savings"},
	},
}

func HasCategory(t models.RecordType, value string) bool {
	for _, c := range Categories[t] {
		if c.Value == value {
			return true
		}
	}
	return false
}
