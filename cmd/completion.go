package cmd

import (
	"github.com/etnz/captable/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the ct command.
func Completion() *complete.Command {
	dateFlag := predict.Something
	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"record": predict.Files("*.json"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"cap": {Flags: map[string]complete.Predictor{
				"d":    dateFlag,
				"json": predict.Nothing,
				"q":    predict.Set{"$.totals", "$.totals.fd.totalFD", "$.rows[*].name", "$.classes"},
			}},
			"convert": {Flags: map[string]complete.Predictor{
				"price":   predict.Something,
				"post":    predict.Nothing,
				"d":       dateFlag,
				"decimal": predict.Nothing,
				"json":    predict.Nothing,
			}},
			"vested": {Flags: map[string]complete.Predictor{
				"d":    dateFlag,
				"json": predict.Nothing,
			}},
			"validate": {Flags: map[string]complete.Predictor{
				"json": predict.Nothing,
			}},
			"fmt":   {},
			"topic": {Flags: map[string]complete.Predictor{"raw": predict.Nothing}, Args: predict.Set(append(topics, "*"))},
		},
	}
}
