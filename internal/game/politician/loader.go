package politician

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// lineData accepts either a bare string or a mapping.
type lineData struct {
	Text          string `yaml:"text"`
	Highlight     string `yaml:"highlight"`
	Voice         string `yaml:"voice"`
	VoiceDuration string `yaml:"voice_duration"`
}

func (l *lineData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Text = node.Value
		return nil
	}
	type plain lineData
	return node.Decode((*plain)(l))
}

type optionData struct {
	Text     string     `yaml:"text"`
	Skill    string     `yaml:"skill"` // empty = no check
	Next     *int       `yaml:"next"`  // nil = stay
	Response []lineData `yaml:"response"`
	Success  []lineData `yaml:"success"`
	Failure  []lineData `yaml:"failure"`
}

type nodeData struct {
	Prompt  []lineData   `yaml:"prompt"`
	Exit    bool         `yaml:"exit"`
	Options []optionData `yaml:"options"`
}

type conversationData struct {
	Initial     []lineData   `yaml:"initial"`
	Repeatables [][]lineData `yaml:"repeatables"`
}

type claimData struct {
	Label          string           `yaml:"label"`
	Dialogue       []lineData       `yaml:"dialogue"`
	AgreeLabel     string           `yaml:"agree_label"`
	QuestionLabel  string           `yaml:"question_label"`
	HardCheckLabel string           `yaml:"hard_check_label"`
	ConverseLabel  string           `yaml:"converse_label"`
	Agree          []lineData       `yaml:"agree"`
	Disagree       []lineData       `yaml:"disagree"`
	HardSuccess    []lineData       `yaml:"hard_success"`
	HardFailure    []lineData       `yaml:"hard_failure"`
	Conversation   conversationData `yaml:"conversation"`
	Questions      []nodeData       `yaml:"questions"`
}

type debuffData struct {
	Chance         float64 `yaml:"chance"`
	SpeechPercent  int     `yaml:"speech_percent"`
	ScholarPercent int     `yaml:"scholar_percent"`
}

type politicianData struct {
	ID                string      `yaml:"id"`
	Name              string      `yaml:"name"`
	Affiliation       string      `yaml:"affiliation"`
	SpeechModPercent  int         `yaml:"speech_mod_percent"`
	ScholarModPercent int         `yaml:"scholar_mod_percent"`
	ChallengeLevel    float64     `yaml:"challenge_level"`
	HardSkill         string      `yaml:"hard_skill"`
	Debuff            debuffData  `yaml:"debuff"`
	Initial           []lineData  `yaml:"initial"`
	VerdictOpen       []lineData  `yaml:"verdict_open"`
	VerdictClose      []lineData  `yaml:"verdict_close"`
	Claims            []claimData `yaml:"claims"`
}

// Default labels for the claim response menu.
const (
	DefaultAgreeLabel     = "Agree"
	DefaultQuestionLabel  = "Disagree"
	DefaultHardCheckLabel = "Press the issue"
	DefaultConverseLabel  = "Chat"
)

// LoadFromBytes parses and validates a single politician.
//
// Postcondition: Returns a validated *Politician, or an error.
func LoadFromBytes(data []byte) (*Politician, error) {
	var pd politicianData
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pd); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing politician YAML: %w", err)
	}
	p, err := pd.toPolitician()
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ensureState()
	return p, nil
}

// LoadDirectory reads every *.yaml file in dir and returns a roster. When
// order is non-empty it lists politician IDs in interview order and every
// listed ID must exist; otherwise the roster follows file name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a roster, or an error on the first failing file.
func LoadDirectory(dir string, order []string) (*Roster, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading politician dir %q: %w", dir, err)
	}
	var loaded []*Politician
	byID := make(map[string]*Politician)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		p, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate politician id %q", path, p.ID)
		}
		byID[p.ID] = p
		loaded = append(loaded, p)
	}
	if len(order) == 0 {
		if len(loaded) == 0 {
			return nil, fmt.Errorf("politician dir %q contains no politicians", dir)
		}
		return NewRoster(loaded)
	}
	ordered := make([]*Politician, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("roster order names unknown politician %q", id)
		}
		ordered = append(ordered, p)
	}
	return NewRoster(ordered)
}

func (pd politicianData) toPolitician() (*Politician, error) {
	aff, err := ParseAffiliation(pd.Affiliation)
	if err != nil {
		return nil, fmt.Errorf("politician %q: %w", pd.ID, err)
	}
	hard := skill.Speech
	if pd.HardSkill != "" {
		if hard, err = skill.ParseType(pd.HardSkill); err != nil {
			return nil, fmt.Errorf("politician %q: hard_skill: %w", pd.ID, err)
		}
	}
	p := &Politician{
		ID:                pd.ID,
		Name:              pd.Name,
		Affiliation:       aff,
		SpeechModPercent:  pd.SpeechModPercent,
		ScholarModPercent: pd.ScholarModPercent,
		ChallengeLevel:    pd.ChallengeLevel,
		HardSkill:         hard,
		Debuff:            Debuff(pd.Debuff),
	}
	if p.Initial, err = toContent(pd.Initial); err != nil {
		return nil, fmt.Errorf("politician %q initial: %w", pd.ID, err)
	}
	if p.VerdictOpen, err = toContent(pd.VerdictOpen); err != nil {
		return nil, fmt.Errorf("politician %q verdict_open: %w", pd.ID, err)
	}
	if p.VerdictClose, err = toContent(pd.VerdictClose); err != nil {
		return nil, fmt.Errorf("politician %q verdict_close: %w", pd.ID, err)
	}
	for i, cd := range pd.Claims {
		c, err := cd.toClaim()
		if err != nil {
			return nil, fmt.Errorf("politician %q claim %d: %w", pd.ID, i, err)
		}
		p.Claims = append(p.Claims, c)
	}
	return p, nil
}

func (cd claimData) toClaim() (Claim, error) {
	c := Claim{
		Label:          cd.Label,
		AgreeLabel:     orDefault(cd.AgreeLabel, DefaultAgreeLabel),
		QuestionLabel:  orDefault(cd.QuestionLabel, DefaultQuestionLabel),
		HardCheckLabel: orDefault(cd.HardCheckLabel, DefaultHardCheckLabel),
		ConverseLabel:  orDefault(cd.ConverseLabel, DefaultConverseLabel),
	}
	fields := []struct {
		name string
		src  []lineData
		dst  *dialogue.Content
	}{
		{"dialogue", cd.Dialogue, &c.Dialogue},
		{"agree", cd.Agree, &c.Agree},
		{"disagree", cd.Disagree, &c.Disagree},
		{"hard_success", cd.HardSuccess, &c.HardSuccess},
		{"hard_failure", cd.HardFailure, &c.HardFailure},
		{"conversation.initial", cd.Conversation.Initial, &c.Conversation.Initial},
	}
	for _, f := range fields {
		content, err := toContent(f.src)
		if err != nil {
			return Claim{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = content
	}
	for i, r := range cd.Conversation.Repeatables {
		content, err := toContent(r)
		if err != nil {
			return Claim{}, fmt.Errorf("conversation.repeatables[%d]: %w", i, err)
		}
		c.Conversation.Repeatables = append(c.Conversation.Repeatables, content)
	}
	if len(cd.Questions) > 0 {
		tree, err := toTree(cd.Questions)
		if err != nil {
			return Claim{}, fmt.Errorf("questions: %w", err)
		}
		c.Questions = tree
	}
	return c, nil
}

func toTree(nodes []nodeData) (*dialogue.Tree, error) {
	tree := &dialogue.Tree{Nodes: make([]dialogue.Node, len(nodes))}
	for n, nd := range nodes {
		prompt, err := toContent(nd.Prompt)
		if err != nil {
			return nil, fmt.Errorf("node %d prompt: %w", n, err)
		}
		node := dialogue.Node{Prompt: prompt, Exit: nd.Exit}
		for o, od := range nd.Options {
			opt, err := od.toOption()
			if err != nil {
				return nil, fmt.Errorf("node %d option %d: %w", n, o, err)
			}
			node.Options = append(node.Options, opt)
		}
		tree.Nodes[n] = node
	}
	return tree, nil
}

func (od optionData) toOption() (dialogue.Option, error) {
	opt := dialogue.Option{Text: od.Text, Next: dialogue.Stay}
	if od.Next != nil {
		opt.Next = *od.Next
	}
	if od.Skill != "" {
		t, err := skill.ParseType(od.Skill)
		if err != nil {
			return dialogue.Option{}, err
		}
		opt.SkillCheck = true
		opt.Skill = t
	}
	var err error
	if opt.Response, err = toContent(od.Response); err != nil {
		return dialogue.Option{}, fmt.Errorf("response: %w", err)
	}
	if opt.Success, err = toContent(od.Success); err != nil {
		return dialogue.Option{}, fmt.Errorf("success: %w", err)
	}
	if opt.Failure, err = toContent(od.Failure); err != nil {
		return dialogue.Option{}, fmt.Errorf("failure: %w", err)
	}
	return opt, nil
}

func toContent(lines []lineData) (dialogue.Content, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	out := make(dialogue.Content, 0, len(lines))
	for i, ld := range lines {
		l := dialogue.Line{Text: ld.Text, Highlight: ld.Highlight, Voice: ld.Voice}
		if ld.VoiceDuration != "" {
			d, err := time.ParseDuration(ld.VoiceDuration)
			if err != nil {
				return nil, fmt.Errorf("line %d: voice_duration %q is not a valid duration: %w", i, ld.VoiceDuration, err)
			}
			l.VoiceDuration = d
		}
		if l.Highlight != "" && !strings.Contains(l.Text, l.Highlight) {
			return nil, fmt.Errorf("line %d: highlight %q not found in text", i, l.Highlight)
		}
		out = append(out, l)
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
