package persona

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketCutpoints(t *testing.T) {
	tests := []struct {
		name   string
		bucket func(float64) string
		value  float64
		want   string
	}{
		{"groupSize at 3", groupSizeBucket, 3.0, SizeSmall},
		{"groupSize above 3", groupSizeBucket, 3.01, SizeMedium},
		{"groupSize at 6", groupSizeBucket, 6.0, SizeMedium},
		{"groupSize above 6", groupSizeBucket, 6.01, SizeLarge},

		{"socialness at 0.3", socialnessBucket, 0.3, Introvert},
		{"socialness above 0.3", socialnessBucket, 0.31, Ambivert},
		{"socialness at 0.6", socialnessBucket, 0.6, Ambivert},
		{"socialness above 0.6", socialnessBucket, 0.61, Extrovert},

		{"budget below 20", budgetBucket, 19.99, Budget},
		{"budget at 20", budgetBucket, 20, Moderate},
		{"budget above 20", budgetBucket, 20.01, Moderate},
		{"budget below 50", budgetBucket, 49.99, Moderate},
		{"budget at 50", budgetBucket, 50, Premium},

		{"generosity at 0.25", generosityBucket, 0.25, Low},
		{"generosity above 0.25", generosityBucket, 0.26, Medium},
		{"generosity at 0.5", generosityBucket, 0.5, Medium},
		{"generosity above 0.5", generosityBucket, 0.51, High},

		{"paymentSpeed at 0.2", paymentSpeedBucket, 0.2, Slow},
		{"paymentSpeed above 0.2", paymentSpeedBucket, 0.21, Medium},
		{"paymentSpeed at 0.4", paymentSpeedBucket, 0.4, Medium},
		{"paymentSpeed above 0.4", paymentSpeedBucket, 0.41, Fast},

		{"activity at 3", activityBucket, 3, Low},
		{"activity above 3", activityBucket, 3.01, Medium},
		{"activity at 8", activityBucket, 8, Medium},
		{"activity above 8", activityBucket, 8.01, High},

		{"time below 11", timeBucket, 10.99, Morning},
		{"time at 11", timeBucket, 11, Afternoon},
		{"time at 16", timeBucket, 16, Evening},
		{"time below 21", timeBucket, 20.99, Evening},
		{"time at 21", timeBucket, 21, Night},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bucket(tt.value))
		})
	}
}

func TestTraitMetadata(t *testing.T) {
	var total float64
	for _, tr := range Traits() {
		total += tr.Weight()
		assert.NotEmpty(t, tr.Vocabulary(), tr.String())
	}
	assert.InDelta(t, 9.8, total, 1e-9)
	assert.Equal(t, "timePreference", TimePreference.String())
	assert.Equal(t, []string{Morning, Afternoon, Evening, Night}, TimePreference.Vocabulary())
	assert.Equal(t, "unknown", Trait(42).String())
	assert.Equal(t, -1, Socialness.index("shy"))
}

func TestTraitScore(t *testing.T) {
	assert.Equal(t, 1.0, traitScore(GroupSize, SizeSmall, SizeSmall))
	assert.Equal(t, 0.5, traitScore(GroupSize, SizeSmall, SizeMedium))
	assert.Equal(t, 0.0, traitScore(GroupSize, SizeSmall, SizeLarge))
	assert.InDelta(t, 1.0/3, traitScore(TimePreference, Morning, Evening), 1e-12)
	assert.Equal(t, 0.0, traitScore(Generosity, "lavish", High))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 46.43, round(325.0/7, 2))
	assert.Equal(t, 2.7, round(19.0/7, 1))
	assert.Equal(t, 0.33, round(1.0/3, 2))
	assert.Equal(t, 2.5, round(2.45, 1))
	assert.Equal(t, 0.0, round(0, 2))

	// Scaled value is 100.49999999999999, so no rounding up.
	assert.Equal(t, 1.0, round(1.005, 2))
	assert.Equal(t, 2.68, round(2.675, 2))
	assert.Equal(t, 0.0, round(math.NaN(), 2))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, -2.0, roundHalfUp(-2.5))
	assert.Equal(t, 22.0, roundHalfUp(21.5))
	assert.Equal(t, 17.0, roundHalfUp(17.49))
}
