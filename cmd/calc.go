package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andestravel/feerules/internal/engine"
	"github.com/andestravel/feerules/internal/model"
)

var (
	calcGroup    string
	calcProvider string
	calcFareType string
	calcAirline  string
	calcScope    string
	calcTripKind string
	calcAudit    bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Resolve the best-matching fee rule for a booking query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rules, err := st.LoadRules(ctx)
		if err != nil {
			return eris.Wrap(err, "calc: load rules")
		}

		input := model.CalculationInput{
			Group:      calcGroup,
			Provider:   model.Provider(calcProvider),
			FareType:   model.FareType(calcFareType),
			Airline:    calcAirline,
			RouteScope: model.Scope(calcScope),
			TripKind:   model.TripKind(calcTripKind),
		}

		result := engine.Resolve(rules, input)

		zap.L().Info("resolved",
			zap.String("best_rule", result.BestRule.RuleID),
			zap.Int("candidates", len(result.MatchingRules)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if calcAudit {
			return eris.Wrap(enc.Encode(result), "calc: encode result")
		}
		return eris.Wrap(enc.Encode(result.BestRule), "calc: encode best rule")
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcGroup, "group", "", "agency group")
	calcCmd.Flags().StringVar(&calcProvider, "provider", "GDS", "provider (GDS or NDC)")
	calcCmd.Flags().StringVar(&calcFareType, "fare-type", string(model.FarePublic), "fare type (Pública, BT or Corpo)")
	calcCmd.Flags().StringVar(&calcAirline, "airline", "", "2-character IATA airline code")
	calcCmd.Flags().StringVar(&calcScope, "scope", "", "route scope (DOM, REG or INT)")
	calcCmd.Flags().StringVar(&calcTripKind, "trip-kind", "*", "trip kind (RT, OW or MULTI)")
	calcCmd.Flags().BoolVar(&calcAudit, "audit", false, "print the full ranked candidate list")
	calcCmd.MarkFlagRequired("group")
	calcCmd.MarkFlagRequired("airline")
	calcCmd.MarkFlagRequired("scope")
	rootCmd.AddCommand(calcCmd)
}
