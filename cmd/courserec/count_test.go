package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	main "github.com/fwojciec/courserec/cmd/courserec"
	"github.com/fwojciec/courserec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("counts courses of the configured year", func(t *testing.T) {
		t.Parallel()

		var gotYear int
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Year:   2024,
			Courses: &mock.CourseService{
				CountCoursesFn: func(ctx context.Context, year int) (int, error) {
					gotYear = year
					return 57, nil
				},
			},
		}

		require.NoError(t, (&main.CountCmd{}).Run(deps))
		assert.Equal(t, 2024, gotYear)
		assert.Equal(t, "57 courses indexed for f2024_s2025\n", stdout.String())
	})

	t.Run("counts every year with --all", func(t *testing.T) {
		t.Parallel()

		var gotYear = -1
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Year:   2024,
			Courses: &mock.CourseService{
				CountCoursesFn: func(ctx context.Context, year int) (int, error) {
					gotYear = year
					return 120, nil
				},
			},
		}

		require.NoError(t, (&main.CountCmd{All: true}).Run(deps))
		assert.Equal(t, 0, gotYear)
		assert.Equal(t, "120 courses indexed\n", stdout.String())
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Year:   2024,
			Courses: &mock.CourseService{
				CountCoursesFn: func(ctx context.Context, year int) (int, error) {
					return 0, errors.New("disk I/O error")
				},
			},
		}

		require.Error(t, (&main.CountCmd{}).Run(deps))
		assert.Equal(t, "error: Internal error.\n", stderr.String())
	})
}
