package script

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Gherkin step patterns recognized in .feature scenarios.
var (
	patternTestID     = regexp.MustCompile(`^Given a test case with id "([^"]+)"`)
	patternPersona    = regexp.MustCompile(`^(?:Given|And) the persona is "([^"]+)"`)
	patternTurnInput  = regexp.MustCompile(`^(?:Given|And) turn (\d+) where user says "([^"]+)"`)
	patternKeywords   = regexp.MustCompile(`^(?:Given|And) the agent should respond with keywords "([^"]+)"`)
	patternExactMatch = regexp.MustCompile(`^(?:Given|And) exact match is required`)

	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

const defaultPersona = "Default Persona"

// ParseFeature converts the scenarios of a Gherkin feature document into
// test cases. Scenarios without any turns are skipped. When a scenario omits
// the test id step, an id is derived from the scenario name.
func ParseFeature(content string) ([]*TestCase, error) {
	var cases []*TestCase

	for _, scenario := range splitScenarios(content) {
		tc, err := parseScenario(scenario)
		if err != nil {
			return nil, err
		}
		if tc != nil {
			cases = append(cases, tc)
		}
	}

	return cases, nil
}

func splitScenarios(content string) []string {
	var scenarios []string
	var current []string

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Scenario:") {
			if len(current) > 0 {
				scenarios = append(scenarios, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}

	if len(current) > 0 {
		scenarios = append(scenarios, strings.Join(current, "\n"))
	}

	return scenarios
}

func parseScenario(scenario string) (*TestCase, error) {
	lines := strings.Split(scenario, "\n")

	scenarioName := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "Scenario:"); ok {
			scenarioName = strings.TrimSpace(after)
			break
		}
	}
	if scenarioName == "" {
		return nil, nil
	}

	testID := ""
	persona := defaultPersona
	var turns []TurnExpectation
	var current *TurnExpectation

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := patternTestID.FindStringSubmatch(trimmed); m != nil {
			testID = m[1]
			continue
		}

		if m := patternPersona.FindStringSubmatch(trimmed); m != nil {
			persona = m[1]
			continue
		}

		if m := patternTurnInput.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				turns = append(turns, *current)
			}
			step, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid turn number '%s' in scenario '%s'", m[1], scenarioName)
			}
			current = &TurnExpectation{
				StepOrder: step,
				UserInput: m[2],
			}
			continue
		}

		if m := patternKeywords.FindStringSubmatch(trimmed); m != nil {
			if current == nil {
				return nil, fmt.Errorf("keywords step before any turn in scenario '%s'", scenarioName)
			}
			for _, keyword := range strings.Split(m[1], ",") {
				current.ExpectedKeywords = append(current.ExpectedKeywords, strings.TrimSpace(keyword))
			}
			turns = append(turns, *current)
			current = nil
			continue
		}

		if patternExactMatch.MatchString(trimmed) && current != nil {
			current.ExactMatchRequired = true
		}
	}

	if len(turns) == 0 {
		return nil, nil
	}

	if testID == "" {
		// Derive an id from the scenario name so the case stays addressable.
		testID = strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(scenarioName), "_"), "_")
	}

	tc, err := NewTestCase(testID, persona, turns)
	if err != nil {
		return nil, fmt.Errorf("scenario '%s': %w", scenarioName, err)
	}

	return tc, nil
}

// LoadFeatureFile parses all test cases from a single .feature file.
func LoadFeatureFile(path string) ([]*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature file '%s': %w", path, err)
	}

	cases, err := ParseFeature(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature file '%s': %w", path, err)
	}

	return cases, nil
}

// LoadFeatureDir parses every *.feature file in a directory. A missing
// directory yields no cases rather than an error.
func LoadFeatureDir(dir string) ([]*TestCase, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.feature"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob feature files in '%s': %w", dir, err)
	}

	var all []*TestCase
	for _, path := range paths {
		cases, err := LoadFeatureFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}

	return all, nil
}
