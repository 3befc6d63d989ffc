package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salescrm/internal/models"
)

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminals := []models.LeadStatus{
		models.LeadStatusConverted,
		models.LeadStatusLost,
		models.LeadStatusNotInterested,
	}
	targets := []models.LeadStatus{
		models.LeadStatusNew, models.LeadStatusConnected, models.LeadStatusFollowup,
		models.LeadStatusHot, models.LeadStatusConverted, models.LeadStatusLost,
	}

	for _, from := range terminals {
		for _, to := range targets {
			assert.False(t, canTransition(from, to), "%s -> %s must be blocked", from, to)
		}
	}
}

func TestWorkingPipelineTransitions(t *testing.T) {
	assert.True(t, canTransition(models.LeadStatusNew, models.LeadStatusConnected))
	assert.True(t, canTransition(models.LeadStatusConnected, models.LeadStatusQuotationSent))
	assert.True(t, canTransition(models.LeadStatusQuotationSent, models.LeadStatusConverted))
	assert.True(t, canTransition(models.LeadStatusHot, models.LeadStatusAppClient))

	// no skipping straight from fresh to closed-won
	assert.False(t, canTransition(models.LeadStatusNew, models.LeadStatusConverted))
	// nothing moves back to new
	assert.False(t, canTransition(models.LeadStatusConnected, models.LeadStatusNew))
}

func TestEmptyCurrentStatusAcceptsAnyValidTarget(t *testing.T) {
	assert.True(t, canTransition("", models.LeadStatusFollowup))
	assert.False(t, canTransition("", models.LeadStatus("bogus")))
}

func TestStatusAPIKeyMapping(t *testing.T) {
	// legacy keys used by older clients
	s, ok := models.ParseLeadStatus("contacted")
	assert.True(t, ok)
	assert.Equal(t, models.LeadStatusConnected, s)

	s, ok = models.ParseLeadStatus("demo")
	assert.True(t, ok)
	assert.Equal(t, models.LeadStatusDemoRequested, s)

	_, ok = models.ParseLeadStatus("whatever")
	assert.False(t, ok)

	// canonical keys round-trip
	s, ok = models.ParseLeadStatus("quotation_sent")
	assert.True(t, ok)
	assert.Equal(t, "quotation_sent", s.APIKey())
}
