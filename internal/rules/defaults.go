package rules

// Default returns the production ruleset. The lists are deliberately
// conservative: an entry only belongs here if it never appears inside a real
// company or brand name.
func Default() *Ruleset {
	return &Ruleset{
		StopWords: []string{
			"home", "about", "about us", "contact", "contact us", "shop",
			"products", "services", "blog", "news", "login", "log in",
			"sign in", "sign up", "register", "menu", "learn", "learn more",
			"read more", "our story", "our impact", "careers", "faq", "faqs",
		},
		NoiseExact: []string{
			"learn more", "read more", "find out more", "view more",
			"view all", "see more", "see all", "click here", "more info",
			"more information", "terms and conditions", "privacy policy",
			"cookie policy", "back to top", "next", "previous", "prev",
		},
		NoisePhrases: []string{
			"learn more", "read more", "read the article", "find out more",
			"click here", "view more", "see more", "discover more",
			"get started", "get involved", "join now", "sign up", "sign in",
			"log in", "register now",
			"back to top", "skip to content", "share this", "follow us",
			"contact us", "get in touch",
			"all rights reserved", "terms and conditions", "privacy policy",
			"cookie policy",
			"subscribe", "unsubscribe", "newsletter",
			"loading", "click to expand", "expand", "collapse",
			"our mission", "our vision", "our values", "our story",
			"our history", "our impact", "press release", "news update",
		},
		NoisePrefixes: []string{
			"read more", "learn more", "find out", "click", "view all",
			"see all", "discover", "explore our", "sign up", "subscribe",
		},
		NoiseTopics: []string{
			"lifestyle", "wellness", "travel", "tips", "guides", "how-to",
			"tutorial", "stories", "updates", "insights", "features",
			"case study", "case studies", "interview", "interviews",
			"report", "reports", "article", "blog", "news",
			"education", "community", "culture", "history", "background",
			"overview", "analysis", "research", "resources",
			"policy", "regulation", "advocacy", "development", "initiatives",
			"programs", "projects",
			"health", "fitness", "mental health", "innovation", "technology",
			"design", "science", "finance", "economics", "marketing",
			"events", "workshops", "webinars", "announcements",
			"press release", "press",
		},
		GenericNouns: []string{
			"home", "contact", "contact us", "about", "about us", "info",
			"information", "details", "more", "view", "learn", "learn more",
			"discover", "read", "read more", "download", "click", "open",
			"close",
			"menu", "navigation", "footer", "header", "section", "page",
			"pages", "settings", "profile",
			"privacy", "privacy policy", "terms", "conditions",
			"terms and conditions", "legal", "cookies", "cookie policy",
			"blog", "article", "news", "press", "events",
			"resources", "support", "help", "services", "service", "tools",
			"login", "log in", "signin", "sign in", "signup", "sign up",
			"register",
			"cart", "checkout", "bag",
			"share", "print",
		},
		BadPlurals: []string{
			"pages", "sections", "headers", "footers", "menus", "links",
			"buttons", "breadcrumbs",
			"articles", "blogs", "stories", "updates", "press releases",
			"announcements", "events", "workshops", "webinars",
			"policies", "terms", "conditions", "notices", "licenses",
			"fields", "inputs", "submissions",
			"files", "documents", "resources", "assets", "images", "videos",
			"icons",
			"things", "items", "objects", "others", "misc",
			"examples", "samples", "illustrations",
		},
		NegativeTerms: []string{
			"cookie settings", "accept all cookies", "manage cookies",
			"your privacy choices", "do not sell my information",
			"site map", "accessibility statement", "skip navigation",
		},
		LanguageWords: []string{
			"english", "en", "français", "francais", "español", "espanol",
			"es", "deutsch", "de", "italiano", "pt", "português",
			"portugues", "简体中文", "繁體中文", "中文", "japanese", "日本語",
		},
		ProductVerbs: []string{
			"buy", "shop", "sold", "sell", "selling", "purchase",
			"purchasing", "contact", "learn", "download", "read", "click",
			"view", "see", "explore",
			"subscribe", "unsubscribe", "login", "signin", "signup",
			"register", "apply", "join", "submit",
			"product", "products", "service", "services", "faq", "faqs",
			"about", "support", "help", "legal", "privacy", "terms",
			"conditions",
			"article", "story", "blog", "news",
		},
		SymbolAllow: []string{
			"& Other Stories", "& OTHER STORIES",
			"&Tradition", "&TRADITION",
			"&pizza", "&PIZZA",
			"&SONS", "&Sons",
		},
		IgnorePaths: []string{
			"/login", "/signin", "/sign-in", "/signup", "/sign-up",
			"/register", "/account", "/my-account", "/user", "/profile",
			"/cart", "/checkout", "/bag",
			"/blog", "/article", "/news", "/press",
			"/privacy", "/privacy-policy", "/terms", "/terms-of-use",
			"/terms-and-conditions", "/cookies", "/cookie-policy",
			"/search",
			"/contact", "/contact-us", "/about", "/about-us",
			"/donate", "/events", "/careers", "/jobs", "/resources",
		},
		DirectoryHints: []string{
			"/members", "/our-members", "/partners", "/our-partners",
			"/brands", "/our-brands", "/companies", "/directory",
			"/certified", "/certified-companies", "/licensees",
			"/producers", "/suppliers", "/retailers", "/who-is-certified",
			"/find-products", "/product-finder", "/database",
		},
		DirectoryHeadingWords: []string{
			"members", "partners", "brands", "companies", "directory",
			"certified", "licensees", "producers", "suppliers", "retailers",
		},
		DetailPathHints: []string{
			"/member/", "/members/", "/company/", "/companies/", "/brand/",
			"/brands/", "/partner/", "/partners/", "/producer/",
			"/licensee/", "/profile/", "/certified/",
		},
		SectionFilters: SectionFilters{
			GlobalRemove: []string{
				"header", "nav", "footer",
				"#cookie-banner", ".cookie-banner", ".cookie-consent",
				".cookies", ".cookie-container",
				".modal", ".popup", ".newsletter-popup", "#newsletter-modal",
				".subscribe-popup",
				".ad", ".ads", ".advertisement", ".promo-banner",
				".social-links", ".social-media", ".share-buttons",
				".breadcrumbs", ".pagination", ".search-bar", ".search-box",
				".search-container",
				".sidebar", ".side-column", ".aside",
				".hero", ".hero-section", ".page-hero", ".banner",
				"form", ".contact-form", ".newsletter", ".subscribe",
			},
			PathSpecific: []PathSectionRule{
				{PathPrefix: "/privacy", Selectors: []string{"body"}},
				{PathPrefix: "/terms", Selectors: []string{"body"}},
				{PathPrefix: "/login", Selectors: []string{"body"}},
				{PathPrefix: "/account", Selectors: []string{"body"}},
			},
		},
		SiteConfigs: map[string]SiteConfig{
			"www.fairtradecertified.org": {
				Rules: []SelectorRule{
					{Selector: ".brand-card h3"},
					{Selector: ".brand-card img", Attr: "alt"},
				},
			},
			"www.rainforest-alliance.org": {
				Rules: []SelectorRule{
					{Selector: ".certified-org-list li"},
					{Selector: ".partner-grid .partner-name"},
				},
			},
			"www.bcorporation.net": {
				Rules: []SelectorRule{
					{Selector: ".company-card__name"},
					{Selector: "a[href*='/find-a-b-corp/company/']"},
				},
			},
		},
		ManualKnownEntities: []string{
			"Patagonia, Inc.", "Ben & Jerry's", "Dr. Bronner's",
			"Seventh Generation", "Tony's Chocolonely", "Alter Eco",
			"Divine Chocolate", "Equal Exchange", "Nature's Path",
		},
	}
}
