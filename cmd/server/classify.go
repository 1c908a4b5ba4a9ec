package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
)

var (
	classifyLocation    string
	classifyTitle       string
	classifyDescription string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Detect the country of a location or the sector of a job title",
	Example: `  job-aggregator classify --location "Pune, Maharashtra"
  job-aggregator classify --title "Staff Nurse" --description "NHS ward role"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if classifyLocation == "" && classifyTitle == "" && classifyDescription == "" {
			return fmt.Errorf("one of --location, --title or --description is required")
		}
		out := cmd.OutOrStdout()

		if classifyLocation != "" {
			if code, ok := classify.DetectCountry(classifyLocation); ok {
				c, _ := classify.Country(code)
				fmt.Fprintf(out, "country: %s (%s)\n", c.Code, c.Name)
			} else {
				fmt.Fprintln(out, "country: not detected")
			}
		}

		if classifyTitle != "" || classifyDescription != "" {
			id, confidence := classify.ClassifySector(classifyTitle, classifyDescription)
			fmt.Fprintf(out, "sector: %s (confidence %d)\n", id, confidence)
			if skills := classify.ExtractSkills(classifyTitle + "\n" + classifyDescription); len(skills) > 0 {
				fmt.Fprintf(out, "skills: %s\n", strings.Join(skills, ", "))
			}
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyLocation, "location", "", "Location text to detect a country in")
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "Job title to classify")
	classifyCmd.Flags().StringVar(&classifyDescription, "description", "", "Job description to classify")

	rootCmd.AddCommand(classifyCmd)
}
