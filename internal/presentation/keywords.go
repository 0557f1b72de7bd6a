package presentation

var defaultKeywords = []string{
	"Hamas",
	"Palestinian Islamic Jihad",
	"Israel Defense Forces (IDF)",
	"United Nations Relief and Works Agency (UNRWA)",
	"Palestine Liberation Organization (PLO)",
	"Hezbollah",
	"Operation Protective Edge",
	"Operation Cast Lead",
	"Operation Guardian of the Walls",
	"First Intifada",
	"Second Intifada",
	"Oslo Accords",
	"Six-Day War",
	"Yom Kippur War",
	"Gaza City",
	"Shejaiya",
	"Khan Younis",
	"Rafah",
	"Sderot",
	"Ashkelon",
	"West Bank",
	"East Jerusalem",
	"Civilian casualties",
	"Human shields",
	"War crimes",
	"Ceasefire violations",
	"Blockade",
	"Humanitarian aid",
	"Displacement",
	"Refugee camps",
	"Rocket attacks",
	"Airstrikes",
	"Tunnel networks",
	"Iron Dome",
	"Hostage situations",
	"Settlement expansion",
	"Annexation",
	"Green Line",
	"UN Resolution 242",
	"Two-state solution",
	"Right of return",
	"Settlement building",
	"BDS (Boycott, Divestment, Sanctions)",
	"Ceasefire agreements",
	"Peace process",
	"#FreePalestine",
	"#StandWithIsrael",
	"#GazaUnderAttack",
	"#PrayForGaza",
	"#IsraelUnderFire",
	"#StopTheOccupation",
	"#EndTheSiege",
	"#PeaceInTheMiddleEast",
}

// DefaultKeywords returns a copy of the built-in keyword allow-list.
func DefaultKeywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}
