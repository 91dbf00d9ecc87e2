package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeasonCSV(t *testing.T) {
	data := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,HC,AC\r\n" +
		"I1,16/09/23,Juventus,Lazio,3,1,7,2\r\n" +
		"\r\n" +
		"I1,17/09/23,Milan,Napoli,2,2,5\r\n"

	rows, err := ReadSeasonCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Juventus", rows[0].Field(colHomeTeam))
	assert.Equal(t, "7", rows[0].Field("HC"))
	assert.True(t, rows[0].Has("AC"))

	// The second data row is ragged; the missing trailing cell is absent.
	assert.Equal(t, "Milan", rows[1].Field(colHomeTeam))
	assert.Equal(t, "5", rows[1].Field("HC"))
	assert.False(t, rows[1].Has("AC"))
	assert.Equal(t, "", rows[1].Field("AC"))
}

func TestReadSeasonCSVStripsBOM(t *testing.T) {
	data := "\ufeffDiv,Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"E0,19/08/2023,Arsenal,Chelsea,1,0\n"

	rows, err := ReadSeasonCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "E0", rows[0].Field(colDivision))
}

func TestReadSeasonCSVDecodesLatin1(t *testing.T) {
	// "Alavés" with the é as the single Windows-1252 byte 0xE9.
	data := []byte("Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"SP1,20/08/2023,Alav\xe9s,Sevilla,0,0\n")

	rows, err := ReadSeasonCSV(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alavés", rows[0].Field(colHomeTeam))
}

func TestReadSeasonCSVEmptyFile(t *testing.T) {
	_, err := ReadSeasonCSV(strings.NewReader(""))
	assert.Error(t, err)
}
