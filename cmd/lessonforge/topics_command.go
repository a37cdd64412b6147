package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lessonforge/internal/catalog"
)

func newTopicsCommand() *cobra.Command {
	var gradeFlag, subjectFlag string

	cmd := &cobra.Command{
		Use:         "topics",
		Short:       "List the lesson topics available per grade and subject",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			subjects := catalog.Subjects()
			if trimmed := strings.TrimSpace(subjectFlag); trimmed != "" {
				subject, ok := catalog.ParseSubject(trimmed)
				if !ok {
					return fmt.Errorf("unknown subject %q", trimmed)
				}
				subjects = []catalog.Subject{subject}
			}

			grades := catalog.Grades()
			if trimmed := strings.TrimSpace(gradeFlag); trimmed != "" {
				grades = []string{trimmed}
			}

			var rows [][]string
			for _, grade := range grades {
				for _, subject := range subjects {
					topics := catalog.Topics(grade, subject)
					if len(topics) == 0 {
						continue
					}
					rows = append(rows, []string{grade, string(subject), strings.Join(topics, ", ")})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No topics found for that grade/subject")
				return nil
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Grade", "Subject", "Topics"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&gradeFlag, "grade", "", "Limit to one grade (K-6)")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "Limit to one subject (math, reading)")
	return cmd
}
