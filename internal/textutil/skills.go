package textutil

import "strings"

// skillVocabulary is the curated skill list. Output preserves this
// order, so keep related entries grouped.
var skillVocabulary = []string{
	"JavaScript",
	"TypeScript",
	"Python",
	"Java",
	"Kotlin",
	"Swift",
	"Golang",
	"Rust",
	"PHP",
	"Ruby",
	"C++",
	"C#",
	"React",
	"Angular",
	"Vue.js",
	"Svelte",
	"Next.js",
	"Node.js",
	"Express",
	"NestJS",
	"Django",
	"Flask",
	"FastAPI",
	"Spring",
	"Laravel",
	"Symfony",
	"Rails",
	"Docker",
	"Kubernetes",
	"Terraform",
	"Ansible",
	"AWS",
	"Azure",
	"GCP",
	"PostgreSQL",
	"MySQL",
	"MongoDB",
	"Redis",
	"Elasticsearch",
	"Kafka",
	"RabbitMQ",
	"GraphQL",
	"gRPC",
	"CI/CD",
	"Jenkins",
	"GitHub",
	"GitLab",
	"Linux",
	"Agile",
	"Scrum",
}

// ExtractSkills returns the vocabulary entries present in the text, in
// vocabulary order, without duplicates. Matching is a case-insensitive
// substring check.
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var out []string
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	return out
}
