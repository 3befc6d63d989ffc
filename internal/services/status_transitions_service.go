package services

import "salescrm/internal/models"

// Allowed status transitions. Terminal states (converted, lost,
// not_interested) have no exits; everything else moves freely through the
// working pipeline.
var leadTransitions = map[models.LeadStatus]map[models.LeadStatus]bool{
	models.LeadStatusNew: {
		models.LeadStatusConnected: true, models.LeadStatusNotPicked: true,
		models.LeadStatusHot: true, models.LeadStatusWeb: true,
		models.LeadStatusAppClient: true, models.LeadStatusLost: true,
		models.LeadStatusNotInterested: true,
	},
	models.LeadStatusConnected: {
		models.LeadStatusFollowup: true, models.LeadStatusQuotationSent: true,
		models.LeadStatusDQSent: true, models.LeadStatusDemoRequested: true,
		models.LeadStatusHot: true, models.LeadStatusConverted: true,
		models.LeadStatusLost: true, models.LeadStatusNotInterested: true,
	},
	models.LeadStatusNotPicked: {
		models.LeadStatusConnected: true, models.LeadStatusFollowup: true,
		models.LeadStatusLost: true, models.LeadStatusNotInterested: true,
	},
	models.LeadStatusFollowup: {
		models.LeadStatusConnected: true, models.LeadStatusQuotationSent: true,
		models.LeadStatusDQSent: true, models.LeadStatusDemoRequested: true,
		models.LeadStatusHot: true, models.LeadStatusConverted: true,
		models.LeadStatusLost: true, models.LeadStatusNotInterested: true,
	},
	models.LeadStatusQuotationSent: {
		models.LeadStatusFollowup: true, models.LeadStatusHot: true,
		models.LeadStatusConverted: true, models.LeadStatusLost: true,
		models.LeadStatusNotInterested: true,
	},
	models.LeadStatusDQSent: {
		models.LeadStatusFollowup: true, models.LeadStatusQuotationSent: true,
		models.LeadStatusConverted: true, models.LeadStatusLost: true,
		models.LeadStatusNotInterested: true,
	},
	models.LeadStatusDemoRequested: {
		models.LeadStatusFollowup: true, models.LeadStatusQuotationSent: true,
		models.LeadStatusHot: true, models.LeadStatusConverted: true,
		models.LeadStatusLost: true, models.LeadStatusNotInterested: true,
	},
	models.LeadStatusHot: {
		models.LeadStatusQuotationSent: true, models.LeadStatusDemoRequested: true,
		models.LeadStatusConverted: true, models.LeadStatusAppClient: true,
		models.LeadStatusWeb: true, models.LeadStatusLost: true,
		models.LeadStatusNotInterested: true,
	},
	models.LeadStatusAppClient: {
		models.LeadStatusConverted: true, models.LeadStatusLost: true,
	},
	models.LeadStatusWeb: {
		models.LeadStatusConverted: true, models.LeadStatusLost: true,
	},
	models.LeadStatusConverted:     {},
	models.LeadStatusLost:          {},
	models.LeadStatusNotInterested: {},
}

func canTransition(current, to models.LeadStatus) bool {
	if current == "" {
		// empty in the DB: allow any valid target
		return to.Valid()
	}
	nexts, ok := leadTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}
