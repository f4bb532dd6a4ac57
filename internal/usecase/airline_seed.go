package usecase

import (
	"context"
	"errors"
	"fmt"

	"flightassist-service/internal/domain/entity"
)

// SampleAirlines is the starter directory loaded by the seed command
func SampleAirlines() []*entity.Airline {
	sample := []struct {
		code    string
		name    string
		aliases []string
	}{
		{"AI", "Air India", []string{"airindia", "air-india"}},
		{"6E", "IndiGo", []string{"indigo airlines", "indigo air"}},
		{"SG", "SpiceJet", []string{"spice jet", "spice-jet"}},
		{"UK", "Vistara", []string{"vistara airlines"}},
		{"EK", "Emirates", []string{"emirates airlines", "fly emirates"}},
		{"QR", "Qatar Airways", []string{"qatar", "qatar air"}},
		{"EY", "Etihad Airways", []string{"etihad", "etihad air"}},
		{"BA", "British Airways", []string{"british air"}},
		{"LH", "Lufthansa", []string{"lufthansa airlines"}},
		{"SQ", "Singapore Airlines", []string{"singapore air"}},
		{"WY", "Oman Air", []string{"omanair"}},
		{"G8", "Go First", []string{"goair", "go air"}},
		{"I5", "AIX Connect", []string{"airasia india", "air asia india"}},
		{"QP", "Akasa Air", []string{"akasa"}},
	}

	out := make([]*entity.Airline, 0, len(sample))
	for _, s := range sample {
		out = append(out, &entity.Airline{
			Code:    s.code,
			Name:    s.name,
			Aliases: append([]string{s.name}, s.aliases...),
		})
	}
	return out
}

// Seed inserts airlines missing from the directory and merges aliases into existing ones.
// It returns the number of airlines inserted.
func (r *AirlineResolver) Seed(ctx context.Context, airlines []*entity.Airline) (int, error) {
	inserted := 0
	now := r.now().UTC()

	for _, seed := range airlines {
		existing, err := r.airlineRepo.GetByCode(ctx, seed.Code)
		switch {
		case errors.Is(err, entity.ErrAirlineNotFound):
			a := *seed
			a.Aliases = append([]string(nil), seed.Aliases...)
			a.FirstSeen, a.LastSeen = now, now
			if err := r.airlineRepo.Save(ctx, &a); err != nil {
				return inserted, err
			}
			inserted++
		case err != nil:
			return inserted, fmt.Errorf("failed to load airline %s: %w", seed.Code, err)
		default:
			grew := false
			for _, alias := range seed.Aliases {
				if existing.AddAlias(alias) {
					grew = true
				}
			}
			if !grew {
				continue
			}
			if err := r.airlineRepo.Save(ctx, existing); err != nil {
				return inserted, err
			}
		}
	}

	r.logger.Info("Seeded airlines", "inserted", inserted, "total", len(airlines))
	return inserted, nil
}
