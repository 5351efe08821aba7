// Package seed populates an empty catalog with a starter set of Douglas
// Adams quotes. Seeding is idempotent: a catalog that already contains
// quotes is left untouched unless force is set.
package seed

import (
	"context"
	"fmt"

	"github.com/quotevault/quotevault/pkg/stores"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

// Entry is one quote in the seed corpus.
type Entry struct {
	Text   string
	Author string
	Source string
	Year   int
	Tags   []string
}

// Quotes is the built-in seed corpus.
var Quotes = []Entry{
	{
		Text:   "The answer to the great question of life, the universe and everything is forty-two.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"philosophy", "humor", "existence", "famous"},
	},
	{
		Text:   "Don't Panic.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"humor", "life", "wisdom", "famous"},
	},
	{
		Text:   "Time is an illusion. Lunchtime doubly so.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"philosophy", "humor", "time", "absurdism"},
	},
	{
		Text:   "In the beginning the Universe was created. This has made a lot of people very angry and been widely regarded as a bad move.",
		Author: "Douglas Adams",
		Source: "The Restaurant at the End of the Universe",
		Year:   1980,
		Tags:   []string{"philosophy", "humor", "existence", "satire"},
	},
	{
		Text:   "I may not have gone where I intended to go, but I think I have ended up where I needed to be.",
		Author: "Douglas Adams",
		Source: "The Long Dark Tea-Time of the Soul",
		Year:   1988,
		Tags:   []string{"life", "wisdom", "philosophy", "journey"},
	},
	{
		Text:   "A learning experience is one of those things that says, 'You know that thing you just did? Don't do that.'",
		Author: "Douglas Adams",
		Source: "The Salmon of Doubt",
		Year:   2002,
		Tags:   []string{"wisdom", "humor", "life", "learning"},
	},
	{
		Text:   "I love deadlines. I love the whooshing noise they make as they go by.",
		Author: "Douglas Adams",
		Source: "The Salmon of Doubt",
		Year:   2002,
		Tags:   []string{"humor", "life", "work", "procrastination"},
	},
	{
		Text:   "The fact that we live at the bottom of a deep gravity well, on the surface of a gas covered planet going around a nuclear fireball 90 million miles away and think this to be normal is obviously some indication of how skewed our perspective tends to be.",
		Author: "Douglas Adams",
		Source: "The Salmon of Doubt",
		Year:   2002,
		Tags:   []string{"philosophy", "science", "perspective", "existence"},
	},
	{
		Text:   "For instance, on the planet Earth, man had always assumed that he was more intelligent than dolphins because he had achieved so much—the wheel, New York, wars and so on—whilst all the dolphins had ever done was muck about in the water having a good time. But conversely, the dolphins had always believed that they were far more intelligent than man—for precisely the same reasons.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"philosophy", "humor", "intelligence", "perspective", "satire"},
	},
	{
		Text:   "Let's think the unthinkable, let's do the undoable. Let us prepare to grapple with the ineffable itself, and see if we may not eff it after all.",
		Author: "Douglas Adams",
		Source: "Dirk Gently's Holistic Detective Agency",
		Year:   1987,
		Tags:   []string{"philosophy", "humor", "language", "challenge"},
	},
	{
		Text:   "There is a theory which states that if ever anyone discovers exactly what the Universe is for and why it is here, it will instantly disappear and be replaced by something even more bizarre and inexplicable. There is another theory which states that this has already happened.",
		Author: "Douglas Adams",
		Source: "The Restaurant at the End of the Universe",
		Year:   1980,
		Tags:   []string{"philosophy", "humor", "existence", "mystery", "absurdism"},
	},
	{
		Text:   "We demand rigidly defined areas of doubt and uncertainty!",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"humor", "philosophy", "certainty", "absurdism"},
	},
	{
		Text:   "It is a mistake to think you can solve any major problems just with potatoes.",
		Author: "Douglas Adams",
		Source: "Life, the Universe and Everything",
		Year:   1982,
		Tags:   []string{"humor", "wisdom", "absurdism"},
	},
	{
		Text:   "Anyone who is capable of getting themselves made President should on no account be allowed to do the job.",
		Author: "Douglas Adams",
		Source: "The Restaurant at the End of the Universe",
		Year:   1980,
		Tags:   []string{"politics", "humor", "satire", "wisdom"},
	},
	{
		Text:   "Nothing travels faster than the speed of light, with the possible exception of bad news, which obeys its own special laws.",
		Author: "Douglas Adams",
		Source: "Mostly Harmless",
		Year:   1992,
		Tags:   []string{"humor", "science", "absurdism"},
	},
	{
		Text:   "The ships hung in the sky in much the same way that bricks don't.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"humor", "science-fiction", "imagery", "absurdism"},
	},
	{
		Text:   "If there's anything more important than my ego around, I want it caught and shot now.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"humor", "ego", "satire", "character"},
	},
	{
		Text:   "Human beings, who are almost unique in having the ability to learn from the experience of others, are also remarkable for their apparent disinclination to do so.",
		Author: "Douglas Adams",
		Source: "Last Chance to See",
		Year:   1990,
		Tags:   []string{"wisdom", "philosophy", "human-nature", "learning"},
	},
	{
		Text:   "I'd far rather be happy than right any day.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"wisdom", "life", "happiness", "philosophy"},
	},
	{
		Text:   "The mere thought hadn't even begun to speculate about the merest possibility of crossing my mind.",
		Author: "Douglas Adams",
		Source: "The Hitchhiker's Guide to the Galaxy",
		Year:   1979,
		Tags:   []string{"humor", "language", "absurdism"},
	},
}

// Seed inserts the seed corpus into the store and returns the number of
// quotes added and the total quotes now in the catalog. When force is
// false and the catalog already holds quotes, nothing is inserted. A
// failure on a single entry is logged and skipped so one bad row does not
// abort the rest.
func Seed(ctx context.Context, store stores.Store, logger *telemetry.Logger, force bool) (added, total int, err error) {
	seeded, err := store.IsSeeded(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check seed state: %w", err)
	}
	if seeded && !force {
		existing, err := store.ListQuotes(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to list quotes: %w", err)
		}
		return 0, len(existing), nil
	}

	for _, entry := range Quotes {
		source := entry.Source
		year := entry.Year
		_, addErr := store.AddQuote(ctx, stores.NewQuote{
			Text:   entry.Text,
			Author: entry.Author,
			Source: &source,
			Year:   &year,
			Tags:   entry.Tags,
		})
		if addErr != nil {
			logger.WithError(addErr).Warnf("failed to add seed quote: %.50s", entry.Text)
			continue
		}
		added++
	}

	all, err := store.ListQuotes(ctx)
	if err != nil {
		return added, 0, fmt.Errorf("failed to list quotes: %w", err)
	}
	return added, len(all), nil
}
