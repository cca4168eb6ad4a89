// Package funds maintains the searchable fund registry: a curated static
// list, optionally augmented from the provider's full fund list.
package funds

import "github.com/shashank1310/SIPSimulator/internal/domain"

// CuratedFunds is the built-in registry of widely held Indian mutual funds.
// It guarantees useful search results even when the provider is unreachable.
var CuratedFunds = []domain.Fund{
	// Large cap
	{SchemeCode: "122639", FundName: "Parag Parikh Flexi Cap Fund - Direct Plan - Growth"},
	{SchemeCode: "120503", FundName: "SBI Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "120465", FundName: "HDFC Top 100 Fund - Direct Plan - Growth"},
	{SchemeCode: "118825", FundName: "ICICI Prudential Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "120716", FundName: "Aditya Birla Sun Life Frontline Equity Fund - Direct Plan - Growth"},
	{SchemeCode: "118989", FundName: "Axis Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "125494", FundName: "Canara Robeco Bluechip Equity Fund - Direct Plan - Growth"},
	{SchemeCode: "147654", FundName: "Kotak Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "112090", FundName: "DSP Top 100 Equity Fund - Direct Plan - Growth"},
	{SchemeCode: "101206", FundName: "Nippon India Large Cap Fund - Direct Plan - Growth"},

	// Mid cap
	{SchemeCode: "127042", FundName: "Motilal Oswal Midcap Fund - Direct Plan - Growth"},
	{SchemeCode: "119597", FundName: "HDFC Mid-Cap Opportunities Fund - Direct Plan - Growth"},
	{SchemeCode: "120444", FundName: "SBI Magnum Midcap Fund - Direct Plan - Growth"},
	{SchemeCode: "143048", FundName: "Axis Midcap Fund - Direct Plan - Growth"},

	// Small cap
	{SchemeCode: "113177", FundName: "Nippon India Small Cap Fund - Direct Plan - Growth"},
	{SchemeCode: "119551", FundName: "HDFC Small Cap Fund - Direct Plan - Growth"},
	{SchemeCode: "120305", FundName: "SBI Small Cap Fund - Direct Plan - Growth"},

	// Index
	{SchemeCode: "147625", FundName: "UTI Nifty 50 Index Fund - Direct Plan - Growth"},
	{SchemeCode: "147614", FundName: "HDFC Index Fund - Sensex Plan - Direct Plan - Growth"},

	// Flexi / multi cap
	{SchemeCode: "119550", FundName: "HDFC Flexi Cap Fund - Direct Plan - Growth"},

	// ELSS
	{SchemeCode: "120270", FundName: "Axis Long Term Equity Fund - Direct Plan - Growth"},
	{SchemeCode: "119060", FundName: "DSP Tax Saver Fund - Direct Plan - Growth"},

	// Debt
	{SchemeCode: "119091", FundName: "HDFC Corporate Bond Fund - Direct Plan - Growth"},
	{SchemeCode: "120692", FundName: "ICICI Prudential Corporate Bond Fund - Direct Plan - Growth"},

	// Hybrid
	{SchemeCode: "119019", FundName: "SBI Equity Hybrid Fund - Direct Plan - Growth"},
	{SchemeCode: "119133", FundName: "HDFC Hybrid Equity Fund - Direct Plan - Growth"},

	// International
	{SchemeCode: "145552", FundName: "Motilal Oswal NASDAQ 100 Fund of Fund - Direct Plan - Growth"},
	{SchemeCode: "120186", FundName: "ICICI Prudential US Bluechip Equity Fund - Direct Plan - Growth"},

	// Other popular picks
	{SchemeCode: "118834", FundName: "Mirae Asset Large Cap Fund - Direct Plan - Growth"},
	{SchemeCode: "125307", FundName: "Mirae Asset Emerging Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "118550", FundName: "Franklin India Bluechip Fund - Direct Plan - Growth"},
	{SchemeCode: "120823", FundName: "Invesco India Contra Fund - Direct Plan - Growth"},
	{SchemeCode: "113047", FundName: "Tata Large Cap Fund - Direct Plan - Growth"},
	{SchemeCode: "102885", FundName: "SBI Contra Fund - Direct Plan - Growth"},
	{SchemeCode: "100520", FundName: "Aditya Birla Sun Life Equity Fund - Direct Plan - Growth"},
	{SchemeCode: "140228", FundName: "Kotak Emerging Equity Fund - Direct Plan - Growth"},
}

// popularSchemeCodes orders the empty-query result: widely held funds first.
var popularSchemeCodes = []string{
	"122639", "127042", "113177", "147625", "120503", "120465",
	"118825", "101206", "147614", "120716", "119597", "119551",
	"119550", "118989", "125494", "147654", "112090", "143048",
	"120444", "120305",
}

// popularHouses boost search relevance for the largest fund houses.
var popularHouses = []string{
	"hdfc", "icici", "sbi", "axis", "parag parikh", "motilal oswal", "nippon", "kotak",
}
