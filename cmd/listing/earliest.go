package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hearing-scheduler/internal/application"
)

type earliestDateOutput struct {
	NoticeDate          string `json:"notice_date"`
	ReferralDate        string `json:"referral_date"`
	EarliestHearingDate string `json:"earliest_hearing_date"`
}

func (c *cli) earliestDateCommand() *cobra.Command {
	var notice, referral string
	cmd := &cobra.Command{
		Use:   "earliest-date",
		Short: "Print the earliest hearing date for a referral",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noticeDate, err := time.Parse(application.DateLayout, notice)
			if err != nil {
				return fmt.Errorf("invalid --notice %q: expected YYYY-MM-DD", notice)
			}
			referralDate, err := time.Parse(application.DateLayout, referral)
			if err != nil {
				return fmt.Errorf("invalid --referral %q: expected YYYY-MM-DD", referral)
			}

			service := application.NewListingService(nil, nil, application.WithLogger(c.logger))
			earliest, err := service.EarliestHearingDate(cmd.Context(), application.EarliestDateParams{
				NoticeDate:   noticeDate,
				ReferralDate: referralDate,
			})
			if err != nil {
				return err
			}
			return writeJSON(c.stdout, earliestDateOutput{
				NoticeDate:          noticeDate.Format(application.DateLayout),
				ReferralDate:        referralDate.Format(application.DateLayout),
				EarliestHearingDate: earliest.Format(application.DateLayout),
			})
		},
	}
	cmd.Flags().StringVar(&notice, "notice", "", "notice date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&referral, "referral", "", "referral date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("notice")
	_ = cmd.MarkFlagRequired("referral")
	return cmd
}
