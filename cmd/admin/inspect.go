package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/infrastructure/oauth"
	"flightassist-service/internal/infrastructure/router"
	"flightassist-service/internal/usecase"
	"flightassist-service/pkg/utils"
	"flightassist-service/templates"
)

var referenceDate string

// resolveDateCmd shows how a temporal expression resolves
var resolveDateCmd = &cobra.Command{
	Use:   "resolve-date <text>",
	Short: "Resolve a temporal expression",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := time.Now()
		if referenceDate != "" {
			d, err := time.Parse(entity.DateLayout, referenceDate)
			if err != nil {
				return fmt.Errorf("invalid --ref %q: %w", referenceDate, err)
			}
			ref = d
		}

		text := strings.Join(args, " ")
		res := utils.NewDateParser().Resolve(text, ref)

		kind, start, end := "none", "-", "-"
		switch res.Kind {
		case utils.DateSingle:
			kind, start = "single", res.Date.Format(entity.DateLayout)
		case utils.DateRange:
			kind, start, end = "range", res.Start.Format(entity.DateLayout), res.End.Format(entity.DateLayout)
		}

		if outputType == "json" {
			return printJSON(map[string]string{"text": text, "kind": kind, "start": start, "end": end})
		}
		printTable([]string{"Text", "Reference", "Kind", "Start", "End"},
			[][]string{{text, ref.Format(entity.DateLayout), kind, start, end}})
		return nil
	},
}

// classifyCmd shows how a query would be routed
var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Classify a query as follow-up, flight search or general chat",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		topics := router.NewTopicRouter(log)
		for _, h := range templates.GeneralTopics() {
			topics.Register(h)
		}
		classifier := usecase.NewQueryClassifier(topics)
		scores := classifier.Score(query)

		followUp := "-"
		if t, ok := usecase.ClassifyAgainst(query); ok {
			followUp = string(t)
		}
		reply := "-"
		if general := classifier.GeneralReply(query); general != nil {
			reply = general.Message
		}

		if outputType == "json" {
			return printJSON(map[string]any{
				"query":          query,
				"follow_up":      followUp,
				"flight_related": scores.FlightRelated(),
				"scores":         scores,
				"general_reply":  reply,
			})
		}
		printTable([]string{"Follow-up (with context)", "Flight", "Location", "Date", "Flight related"},
			[][]string{{followUp, fmt.Sprint(scores.Flight), fmt.Sprint(scores.Location), fmt.Sprint(scores.Date), fmt.Sprint(scores.FlightRelated())}})
		if reply != "-" {
			fmt.Println(reply)
		}
		return nil
	},
}

// tokenCmd fetches an Amadeus access token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Fetch an Amadeus access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.AmadeusClientID == "" || cfg.AmadeusClientSecret == "" {
			return fmt.Errorf("AMADEUS_API_KEY and AMADEUS_API_SECRET must be set")
		}
		amadeus := oauth.NewAmadeusOAuth(cfg.AmadeusBaseURL, cfg.AmadeusClientID, cfg.AmadeusClientSecret, log)
		token, err := amadeus.FetchToken(cmd.Context())
		if err != nil {
			return err
		}
		out, err := amadeus.TokenToJSON(token)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	resolveDateCmd.Flags().StringVar(&referenceDate, "ref", "", "reference date (YYYY-MM-DD), defaults to now")
	rootCmd.AddCommand(resolveDateCmd, classifyCmd, tokenCmd)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
