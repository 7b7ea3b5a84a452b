package main

import (
	"fmt"

	"github.com/fwojciec/courserec"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := courserec.CourseFilter{
		Codes:  c.Codes,
		Offset: c.Offset,
		Limit:  c.Limit,
	}
	if !c.All {
		year := deps.Year
		filter.Year = &year
	}

	courses, err := deps.Courses.FindCourses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	if len(courses) == 0 {
		fmt.Fprintln(deps.Stdout, "No courses found. Use 'courserec index' to add them.")
		return nil
	}

	for _, course := range courses {
		if c.All {
			fmt.Fprintf(deps.Stdout, "%s  ", courserec.TermLabel(course.Year))
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", course.Code, course.Name, course.Link)
	}

	return nil
}
