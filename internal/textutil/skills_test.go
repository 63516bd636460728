package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills(t *testing.T) {
	text := "Nous cherchons un développeur Python maîtrisant Django, Docker et PostgreSQL. " +
		"La stack tourne sur AWS avec du Terraform."
	got := ExtractSkills(text)
	assert.Equal(t, []string{"Python", "Django", "Docker", "Terraform", "AWS", "PostgreSQL"}, got)
}

func TestExtractSkillsPreservesVocabularyOrder(t *testing.T) {
	// Mention order in the text must not leak into the result.
	got := ExtractSkills("Kubernetes avant Docker, React avant Python")
	assert.Equal(t, []string{"Python", "React", "Docker", "Kubernetes"}, got)
}

func TestExtractSkillsDeduplicates(t *testing.T) {
	got := ExtractSkills("Docker, docker, DOCKER")
	assert.Equal(t, []string{"Docker"}, got)
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	got := ExtractSkills("typescript et GRAPHQL")
	assert.Equal(t, []string{"TypeScript", "GraphQL"}, got)
}

func TestExtractSkillsEmpty(t *testing.T) {
	assert.Nil(t, ExtractSkills(""))
	assert.Nil(t, ExtractSkills("aucune technologie mentionnée"))
}
