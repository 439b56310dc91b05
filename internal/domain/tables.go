package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&VerificationCode{},
	// Store
	&Store{},
	&Unit{},
	&BusinessHour{},
	// Catalog
	&Item{},
	&Tag{},
	&Category{},
	&CustomizationCategory{},
	&CustomizationItem{},
	// Billing
	&BillingEvent{},
}
