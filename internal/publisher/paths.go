package publisher

import (
	"fmt"
	"path"
	"strings"

	"codeberg.org/algopatterns/forge/internal/artifact"
)

const (
	artifactTrailer  = "Artifact-Id: "
	maxSubjectLength = 60
	referencePrefix  = "commit:"
)

var extensions = map[string]string{
	"go":         "go",
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"rust":       "rs",
	"java":       "java",
	"ruby":       "rb",
	"shell":      "sh",
	"kotlin":     "kt",
	"cpp":        "cpp",
	"c":          "c",
	"csharp":     "cs",
}

// returns the repository path for an artifact, unique per artifact id
func filePath(prefix, id, languageHint string) string {
	ext, ok := extensions[strings.ToLower(languageHint)]
	if !ok {
		ext = "txt"
	}

	return path.Join(prefix, id[:12], "main."+ext)
}

// builds the commit message; the trailer is how published artifacts are
// recognized on later retries
func commitMessage(a *artifact.Artifact, id string) string {
	requirement := a.Source.Requirement()

	subject, _, _ := strings.Cut(requirement, "\n")
	if len([]rune(subject)) > maxSubjectLength {
		subject = string([]rune(subject)[:maxSubjectLength-3]) + "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "forge: %s\n\n", subject)
	fmt.Fprintf(&b, "Requirement:\n%s\n\n", requirement)
	fmt.Fprintf(&b, "%s%s\n", artifactTrailer, id)

	return b.String()
}

func hasTrailer(message, id string) bool {
	return strings.Contains(message, artifactTrailer+id)
}

func reference(sha string) string {
	return referencePrefix + sha
}
