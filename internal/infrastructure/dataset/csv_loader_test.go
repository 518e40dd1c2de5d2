package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/domain"
)

const fakeCSV = `title,text,subject,date
"BREAKING: Aliens land","Shocking, they say ""hello""",News,"December 31, 2017"
,,News,"December 30, 2017"
Miracle cure,Doctors hate it,health,"December 29, 2017"
`

const trueCSV = "\ufefftitle,text,subject,date\nSenate passes bill,WASHINGTON (Reuters) - The Senate voted,politicsNews,\"December 31, 2017\"\n"

func TestReadParsesQuotedFieldsAndSkipsBlankRows(t *testing.T) {
	t.Parallel()

	got, err := Read(context.Background(), strings.NewReader(fakeCSV), domain.LabelFake)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BREAKING: Aliens land", got[0].Article.Title)
	assert.Equal(t, `Shocking, they say "hello"`, got[0].Article.Text)
	assert.Equal(t, "News", got[0].Article.Subject)
	assert.Equal(t, domain.LabelFake, got[1].Label)
}

func TestReadRequiresColumns(t *testing.T) {
	t.Parallel()

	_, err := Read(context.Background(), strings.NewReader("headline,body\nx,y\n"), domain.LabelFake)
	require.Error(t, err)
}

func TestCSVLoaderLoadsBothFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fakePath := filepath.Join(dir, "Fake.csv")
	truePath := filepath.Join(dir, "True.csv")
	require.NoError(t, os.WriteFile(fakePath, []byte(fakeCSV), 0o644))
	require.NoError(t, os.WriteFile(truePath, []byte(trueCSV), 0o644))

	got, err := NewCSVLoader(fakePath, truePath).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.LabelReal, got[2].Label)
	assert.Equal(t, "politicsNews", got[2].Article.Subject)
}

func TestCSVLoaderMissingFileIsNoCorpus(t *testing.T) {
	t.Parallel()

	_, err := NewCSVLoader("/nonexistent/Fake.csv", "/nonexistent/True.csv").Load(context.Background())
	require.ErrorIs(t, err, domain.ErrNoCorpus)
}
