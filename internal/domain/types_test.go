package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBreakdown_PreservesKeyOrder(t *testing.T) {
	var b ScoreBreakdown
	err := json.Unmarshal([]byte(`{"staleness": -2, "age": 3, "comments": 10, "blank": null}`), &b)
	require.NoError(t, err)

	assert.Equal(t, ScoreBreakdown{
		{Name: "staleness", Value: -2},
		{Name: "age", Value: 3},
		{Name: "comments", Value: 10},
		{Name: "blank", Value: 0},
	}, b)
}

func TestScoreBreakdown_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	var b ScoreBreakdown
	err := json.Unmarshal([]byte(`{"age": 3, "comments": 10, "age": 7}`), &b)
	require.NoError(t, err)

	assert.Equal(t, ScoreBreakdown{
		{Name: "age", Value: 7},
		{Name: "comments", Value: 10},
	}, b)
}

func TestScoreBreakdown_Null(t *testing.T) {
	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(`{"number": 1, "score_data": null}`), &issue))
	assert.Nil(t, issue.ScoreData)
}

func TestScoreBreakdown_RejectsNonObject(t *testing.T) {
	var b ScoreBreakdown
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &b))
}

func TestScoreBreakdown_MarshalKeepsOrder(t *testing.T) {
	b := ScoreBreakdown{{Name: "z", Value: 1}, {Name: "a", Value: 0.5}}
	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":0.5}`, string(out))
}

func TestTimestamp_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2015-03-04T10:11:12Z"`, time.Date(2015, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"zoneless", `"2015-03-04T10:11:12"`, time.Date(2015, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"space separated", `"2015-03-04 10:11:12"`, time.Date(2015, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"epoch millis", `1425463872000`, time.Date(2015, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestFlag(t *testing.T) {
	tests := []struct {
		input string
		want  Flag
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`{"url": "https://api.github.com/repos/a/b/pulls/1"}`, true},
		{`0`, false},
		{`""`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestIssue_Decode(t *testing.T) {
	raw := `{
		"number": 42, "title": "Crash on start", "username": "octo",
		"avatar": "https://avatars/octo", "created": "2015-01-02T00:00:00Z",
		"updated": "2015-02-03T00:00:00Z", "comments": 3, "references": 1,
		"rank": 2, "score": 87, "score_data": {"each_comment": 3},
		"assignee": null, "milestone": "beta.1", "pull_request": false
	}`

	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &issue))

	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "octo", issue.Username)
	assert.Equal(t, float64(87), issue.Score)
	assert.Equal(t, "", issue.Assignee)
	assert.Equal(t, "beta.1", issue.Milestone)
	assert.False(t, bool(issue.PullRequest))
	assert.Equal(t, 2015, issue.Created.Year())
}

func TestIssue_CloneIsDeep(t *testing.T) {
	orig := Issue{Number: 1, ScoreData: ScoreBreakdown{{Name: "age", Value: 1}}}
	c := orig.Clone()
	c.ScoreData[0].Value = 99
	c.Title = "changed"

	assert.Equal(t, float64(1), orig.ScoreData[0].Value)
	assert.Equal(t, "", orig.Title)
}

func TestActionType_Next(t *testing.T) {
	assert.Equal(t, ActionComment, ActionClose.Next())
	assert.Equal(t, ActionLabel, ActionComment.Next())
	assert.Equal(t, ActionClose, ActionLabel.Next())
	assert.Equal(t, ActionClose, ActionType("").Next())
}

func TestDraftAction_Complete(t *testing.T) {
	d := &DraftAction{ActionType: ActionClose}
	assert.False(t, d.Complete())
	d.MessageType = "forum_question"
	assert.True(t, d.Complete())
	d.ActionType = ""
	assert.False(t, d.Complete())
}
