package ljus

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// TagThumb specifies which thumbnail to use for suggested tags.
var TagThumb = "full"

// MaxSuggestions caps the number of suggested tags kept per photo.
var MaxSuggestions = 5

const suggestPrompt = "generate 1-5 comma-separated one-word tags. Here are some example tags: " +
	"bw for black and white photos, family for family photos, friends for friend photos, " +
	"landscape for landscape photos, nature for nature photos, bird for bird photos, " +
	"beach for beach photos, cycling for bicycling photos. The tag animal should be included " +
	"for photos of an animal that is unlikely to be a pet. The tag forest should be used for " +
	"forests, sunrise for sunrises. Tags should be a present-tense singular word that a " +
	"professional photographer would want to organize their photo albums with. " +
	"Do not combine multiple words. Use urban for city photos. " +
	"If you know the location of a photo, add the name of the place, city, or country as a tag. " +
	"do not use plural words. use rock instead of rocks."

// Suggester proposes tags for a JPEG image.
type Suggester interface {
	Suggest(ctx context.Context, jpeg []byte) ([]string, error)
}

// Gemini suggests tags with a Gemini model.
type Gemini struct {
	Client *genai.Client
	Model  string
}

// NewGemini returns a Gemini suggester using apiKey. An empty model uses
// DefaultModel.
func NewGemini(ctx context.Context, apiKey string, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{Client: client, Model: model}, nil
}

// Suggest implements Suggester.
func (g *Gemini) Suggest(ctx context.Context, jpeg []byte) ([]string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(jpeg, "image/jpeg"),
		genai.NewPartFromText(suggestPrompt),
	}
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return parseSuggestions(resp.Text()), nil
}

// parseSuggestions turns a comma-separated model reply into tags.
func parseSuggestions(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range strings.Split(text, ",") {
		t = strings.ToLower(strings.Join(strings.Fields(t), ""))
		t = strings.Trim(t, ".\"'`")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// AutoTag adds suggested tags to a stored photo and returns them. Photos with
// embedded keywords are skipped unless overwrite is set.
func (l *Library) AutoTag(ctx context.Context, s Suggester, path string, overwrite bool) ([]string, error) {
	p, found := l.store.Get(path)
	if !found {
		return nil, fmt.Errorf("%s: not in library", path)
	}
	if kw := keywords(path, p.Meta); !overwrite && len(kw) > 0 {
		klog.Infof("%s has tags: %v", path, kw)
		return nil, nil
	}

	thumb, ok := p.Thumbs[TagThumb]
	if !ok {
		return nil, fmt.Errorf("%s: no %q thumbnail", path, TagThumb)
	}
	bs, err := os.ReadFile(thumb.Path)
	if err != nil {
		return nil, fmt.Errorf("read thumb: %w", err)
	}

	ts, err := s.Suggest(ctx, bs)
	if err != nil {
		return nil, err
	}
	klog.Infof("adding tags to %s: %v", path, ts)
	p.AddTags(ts...)
	if err := l.store.Put(p); err != nil {
		return nil, err
	}
	return ts, nil
}
