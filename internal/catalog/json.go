package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// envelope is the response wrapper of the catalog backend.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wireItem struct {
	ItemID           int          `json:"item_id"`
	ItemName         string       `json:"item_name"`
	DropRateAttempts model.Number `json:"drop_rate_attempts"`
	NeitherInverse   model.Number `json:"neither_inverse"`
}

type wireActivity struct {
	Index int        `json:"activity_index"`
	Name  string     `json:"activity_name"`
	Maps  []wireItem `json:"maps"`
}

func decodeEnvelope(r io.Reader, target interface{}) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if env.Status != "success" {
		if env.Message == "" {
			env.Message = "no message"
		}
		return fmt.Errorf("backend returned status %q: %s", env.Status, env.Message)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// DecodeActivities decodes the backend's activities response.
func DecodeActivities(r io.Reader) ([]model.Activity, error) {
	var wire []wireActivity
	if err := decodeEnvelope(r, &wire); err != nil {
		return nil, err
	}
	out := make([]model.Activity, 0, len(wire))
	for _, w := range wire {
		a := model.Activity{Index: w.Index, Name: w.Name, Items: make([]model.Item, 0, len(w.Maps))}
		for _, m := range w.Maps {
			a.Items = append(a.Items, model.Item{
				ID:               m.ItemID,
				Name:             m.ItemName,
				DropRateAttempts: m.DropRateAttempts,
				NeitherInverse:   m.NeitherInverse,
			})
		}
		out = append(out, a)
	}
	return out, nil
}

// DecodeRates decodes the backend's default completion rates response.
func DecodeRates(r io.Reader) ([]model.DefaultRate, error) {
	var rates []model.DefaultRate
	if err := decodeEnvelope(r, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}
