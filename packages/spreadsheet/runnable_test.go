package spreadsheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnableSpreadsheet(t *testing.T) {
	t.Run("Chain", func(t *testing.T) {
		var lines []string
		r := NewRunnableSpreadsheet(func(s string) { lines = append(lines, s) }).
			Set("A1", "10").
			Set("A2", "=SUM(A1)").
			Log("A2").
			Log("B9").
			CheckError()

		assert.Equal(t, "10", r.Value("A2"))
		assert.Equal(t, []string{"10", "10", ""}, r.Values("A1", "A2", "A3"))
		assert.Equal(t, []string{"A2: 10", "B9: <empty>", "No errors"}, lines)

		s, err := r.Run()
		require.NoError(t, err)
		assert.Same(t, r.Spreadsheet(), s)
	})

	t.Run("ErrorStopsChain", func(t *testing.T) {
		var lines []string
		r := NewRunnableSpreadsheet(func(s string) { lines = append(lines, s) }).
			Set("A1", "1").
			Set("not an address", "2").
			Set("A2", "3").
			CheckError()

		_, err := r.Run()
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, InvalidArgument, appErr.Code)
		assert.Equal(t, "", r.Value("A1"))
		assert.Nil(t, r.Values("A1"))
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "ERROR:")

		// the failing step left the earlier cell in place
		assert.Equal(t, "1", r.Spreadsheet().Display("A1"))
		assert.Equal(t, "", r.Spreadsheet().Display("A2"))

		assert.Panics(t, func() { r.Must() })
		assert.Panics(t, func() { r.RunOrPanic() })

		r.Reset().Set("A2", "3")
		assert.NoError(t, r.Error())
		assert.Equal(t, "3", r.Value("A2"))
	})

	t.Run("ThenAndOnError", func(t *testing.T) {
		called := false
		r := NewRunnableSpreadsheet(func(string) {}).
			Then(func(r *RunnableSpreadsheet) *RunnableSpreadsheet {
				called = true
				return r.Set("A1", "5")
			})
		assert.True(t, called)
		assert.Equal(t, "5", r.Value("A1"))

		sentinel := errors.New("replaced")
		r.InsertRow(0).
			Then(func(r *RunnableSpreadsheet) *RunnableSpreadsheet {
				t.Fatal("Then must not run after an error")
				return r
			}).
			OnError(func(err error) error { return sentinel })
		assert.ErrorIs(t, r.Error(), sentinel)
	})

	t.Run("StructuralSteps", func(t *testing.T) {
		s := NewRunnableSpreadsheet(func(string) {}).
			Set("A1", "1").
			Set("B1", "=SUM(A1)").
			InsertRow(1).
			InsertColumn("A").
			DeleteColumn("A").
			DeleteRow(1).
			FindAndReplace(FindReplaceOptions{Find: "1", Replace: "2", MatchEntireCell: true}).
			RemoveDuplicateRows("A1:A1", nil, false).
			Must().
			RunOrPanic()

		assert.Equal(t, "2", s.Display("A1"))
		assert.Equal(t, "2", s.Display("B1"))
	})
}
