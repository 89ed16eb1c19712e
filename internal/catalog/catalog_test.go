package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `lesson_number,order_index,domain,difficulty,title,module,topics,prerequisites,status,tags,notes
5,3,cloud,2,IAM Basics,Cloud 101,"[""IAM"",""roles""]","[1, 2]",done,"aws,iam","keep ""as is"""
2,7,dfir,1,Triage,DFIR 101,triage;memory,[],draft,,
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesson_ideas.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppend_ScenarioTwoCloudRows(t *testing.T) {
	path := writeFile(t, "lesson_number,domain,order_index,title\n5,cloud,3,First\n")
	c, err := Load(path)
	require.NoError(t, err)

	added, err := c.Append([]Idea{
		{Domain: "cloud", Title: "Second"},
		{Domain: "cloud", Title: "Third"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "6", added[0].LessonNumber)
	assert.Equal(t, "7", added[1].LessonNumber)
	assert.Equal(t, "4", added[0].OrderIndex)
	assert.Equal(t, "5", added[1].OrderIndex)
}

func TestAppend_MonotonicAcrossDomains(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	before := c.NextLessonNumber() - 1

	ideas := []Idea{
		{Domain: "dfir", Title: "A"},
		{Domain: "cloud", Title: "B"},
		{Domain: "new_domain", Title: "C"},
		{Domain: "dfir", Title: "D"},
	}
	added, err := c.Append(ideas)
	require.NoError(t, err)

	assert.Equal(t, before+len(ideas), c.NextLessonNumber()-1)
	prev := before
	for _, r := range added {
		n, err := r.Number()
		require.NoError(t, err)
		assert.Equal(t, prev+1, n)
		prev = n
	}

	orders := map[string][]string{}
	for _, r := range added {
		orders[r.Domain] = append(orders[r.Domain], r.OrderIndex)
	}
	assert.Equal(t, []string{"8", "9"}, orders["dfir"])
	assert.Equal(t, []string{"4"}, orders["cloud"])
	assert.Equal(t, []string{"1"}, orders["new_domain"])
}

func TestAppend_EncodesListsAndDefaults(t *testing.T) {
	c := New()
	added, err := c.Append([]Idea{{
		Domain:        "red_team",
		Difficulty:    3,
		Title:         "C2 Channels",
		Topics:        []string{"HTTP beacons", "DNS tunnels"},
		Prerequisites: []int{4, 9},
		Tags:          []string{"c2", "network"},
	}})
	require.NoError(t, err)
	r := added[0]
	assert.Equal(t, "1", r.LessonNumber)
	assert.Equal(t, "1", r.OrderIndex)
	assert.Equal(t, "3", r.Difficulty)
	assert.Equal(t, `["HTTP beacons","DNS tunnels"]`, r.Topics)
	assert.Equal(t, "[4,9]", r.Prerequisites)
	assert.Equal(t, "c2,network", r.Tags)
	assert.Equal(t, DefaultStatus, r.Status)

	prereqs, err := r.PrerequisiteList()
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "9"}, prereqs)
	assert.Equal(t, []string{"HTTP beacons", "DNS tunnels"}, r.TopicList())
}

func TestAppend_RejectsInvalidIdeasWithoutChanges(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, err = c.Append([]Idea{{Domain: "dfir", Title: "ok"}, {Title: "", Difficulty: 5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ideas[1]: domain is required")
	assert.Contains(t, err.Error(), "ideas[1]: title is required")
	assert.Contains(t, err.Error(), "ideas[1]: difficulty 5")
	assert.Len(t, c.Rows, 2)
}

func TestSave_PreservesExistingRowsVerbatim(t *testing.T) {
	path := writeFile(t, sampleCSV)
	c, err := Load(path)
	require.NoError(t, err)
	_, err = c.Append([]Idea{{Domain: "cloud", Title: "New"}})
	require.NoError(t, err)
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), sampleCSV), "existing content is an unchanged prefix")
	assert.Contains(t, string(data), "6,4,cloud,,New,,[],[],planned,,\n")

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.Rows, 3)
	assert.Equal(t, `keep "as is"`, reloaded.Rows[0].Notes)
}

func TestLoad_MissingFileIsEmptyCatalog(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Equal(t, Columns, c.Header)
	assert.Empty(t, c.Rows)
	assert.Equal(t, 1, c.NextLessonNumber())
}

func TestRead_KeepsUnknownColumnsAndStripsBOM(t *testing.T) {
	c, err := Read(strings.NewReader("\ufefflesson_number,title,owner\n1,Intro,sam\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson_number", "title", "owner"}, c.Header)
	assert.Equal(t, "1", c.Rows[0].LessonNumber)
	assert.Equal(t, "sam", c.Rows[0].Extra["owner"])

	_, err = c.Append([]Idea{{Domain: "dfir", Title: "Next"}})
	require.NoError(t, err)
	assert.Equal(t, "lesson_number", c.Header[0])
	assert.Contains(t, c.Header, "prerequisites", "missing canonical columns are added")

	var sb strings.Builder
	require.NoError(t, c.Write(&sb))
	assert.True(t, strings.HasPrefix(sb.String(), "lesson_number,title,owner,order_index,"))
	assert.Contains(t, sb.String(), "1,Intro,sam,")
}

func TestValidate_ReportsMalformedRowsByLessonNumber(t *testing.T) {
	c, err := Read(strings.NewReader(`lesson_number,order_index,domain,difficulty,prerequisites
3,1,dfir,2,"[""lesson_1""]"
4,x,dfir,hard,lesson_1;lesson_2
,2,dfir,1,[]
`))
	require.NoError(t, err)

	errs := c.Validate()
	require.Len(t, errs, 4)
	assert.Equal(t, `lesson 4: order_index "x" is not a number`, errs[0].Error())
	assert.Equal(t, `lesson 4: difficulty "hard" is not a number`, errs[1].Error())
	assert.Equal(t, `lesson 4: prerequisites is not a JSON list: "lesson_1;lesson_2"`, errs[2].Error())
	assert.Equal(t, `row 3: lesson_number "" is not a number`, errs[3].Error())
}

func TestFind(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	r, ok := c.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Triage", r.Title)
	assert.Equal(t, []string{"triage", "memory"}, r.TopicList())

	_, ok = c.Find(99)
	assert.False(t, ok)
}

func TestParseIdeas(t *testing.T) {
	list := `
- domain: dfir
  title: Memory Forensics
  topics: [Volatility, pslist]
  prerequisites: [2]
`
	ideas, err := ParseIdeas([]byte(list))
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, []string{"Volatility", "pslist"}, ideas[0].Topics)
	assert.Equal(t, []int{2}, ideas[0].Prerequisites)

	mapping := "ideas:\n  - domain: cloud\n    title: IAM\n    difficulty: 2\n"
	ideas, err = ParseIdeas([]byte(mapping))
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, 2, ideas[0].Difficulty)

	_, err = ParseIdeas([]byte("just a string"))
	assert.Error(t, err)
	_, err = ParseIdeas([]byte(""))
	assert.Error(t, err)
}

func TestLoadIdeas_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ideas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- domain: dfir\n  title: Prefetch\n"), 0o644))
	ideas, err := LoadIdeas(path)
	require.NoError(t, err)
	assert.Equal(t, "Prefetch", ideas[0].Title)

	_, err = LoadIdeas(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
