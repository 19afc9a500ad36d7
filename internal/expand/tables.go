package expand

// roleHierarchy groups job titles into buckets of interchangeable variants.
// A title matching any variant pulls in the whole bucket.
var roleHierarchy = map[string][]string{
	"executive": {
		"ceo", "owner", "coo", "cfo", "cto", "cio", "founder",
		"partner", "president", "vp", "director", "managing director",
		"board member", "chairman", "principal",
	},
	"manager": {
		"manager", "senior manager", "head", "lead", "supervisor",
		"team lead", "department head", "group manager", "practice lead",
	},
	"technical": {
		"engineer", "senior engineer", "developer", "senior developer",
		"architect", "data scientist", "analyst", "specialist", "consultant",
		"devops", "sre", "security engineer", "qa engineer", "systems administrator",
	},
	"operations": {
		"operations manager", "hr manager", "finance manager", "office manager",
		"logistics coordinator", "supply chain manager", "facilities manager",
	},
	"support": {
		"assistant", "coordinator", "administrator", "representative",
		"intern", "receptionist", "customer support", "helpdesk",
	},
}

// cLevelTitles never get a "chief " prefix; they already are one.
var cLevelTitles = map[string]bool{
	"ceo": true,
	"cto": true,
	"cfo": true,
	"cio": true,
}

var titlePrefixes = []string{"lead", "senior", "junior", "chief", "principal", "head of"}

var titleSuffixes = []string{"manager", "director", "specialist", "engineer"}

// industrySynonyms maps a canonical industry to related search terms.
// A bucket matches when the input equals the canonical name or contains
// any of its synonyms.
var industrySynonyms = map[string][]string{
	"technology": {
		"software", "hardware", "IT", "cloud", "cybersecurity", "ai", "machine learning",
		"blockchain", "fintech", "edtech", "healthtech", "saas", "iot", "gaming", "web3",
	},
	"finance": {
		"banking", "investment", "asset management", "private equity", "venture capital",
		"accounting", "insurance", "fintech", "cryptocurrency", "hedge funds", "stock trading",
	},
	"healthcare": {
		"pharmaceuticals", "biotech", "medical devices", "hospitals", "telemedicine",
		"health insurance", "clinics", "mental health", "healthtech",
	},
	"construction": {
		"civil engineering", "architecture", "real estate development", "contracting",
		"infrastructure", "urban planning", "construction management", "green building",
	},
	"manufacturing": {
		"automotive", "aerospace", "electronics", "textiles", "industrial equipment",
		"3D printing", "robotics", "supply chain", "chemicals",
	},
	"retail": {
		"ecommerce", "fashion", "consumer goods", "luxury", "supermarkets",
		"dropshipping", "marketplaces", "direct-to-consumer (DTC)",
	},
	"energy": {
		"oil & gas", "renewables", "solar", "wind", "nuclear", "utilities",
		"energy storage", "electric vehicles (EV)", "smart grid",
	},
	"education": {
		"edtech", "e-learning", "higher education", "K-12", "vocational training",
		"tutoring", "online courses", "corporate training",
	},
	"entertainment": {
		"media", "film & TV", "music", "streaming", "gaming", "esports",
		"publishing", "social media", "virtual reality (VR)",
	},
	"transportation": {
		"logistics", "aviation", "shipping", "rail", "autonomous vehicles",
		"ride-sharing", "public transit", "last-mile delivery",
	},
}
