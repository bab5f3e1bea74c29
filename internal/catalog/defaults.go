package catalog

import "sitescout/internal/scout"

// Default returns the built-in catalog used when no catalog file is supplied.
func Default() *Catalog {
	return New([]Category{
		{Name: "Entertainment & Media", Sites: []scout.SiteSpec{
			{Name: "Spotify", URL: "https://open.spotify.com"},
			{Name: "Snapchat", URL: "https://www.snapchat.com"},
			{Name: "Discord", URL: "https://discord.com"},
			{Name: "FuboTV", URL: "https://www.fubo.tv"},
			{Name: "Vimeo", URL: "https://vimeo.com"},
		}},
		{Name: "Gaming", Sites: []scout.SiteSpec{
			{Name: "Pokémon Go", URL: "https://pokemongolive.com"},
			{Name: "Pokemon TCG", URL: "https://www.pokemon.com/us/pokemon-tcg"},
			{Name: "Phasmophobia", URL: "https://store.steampowered.com/app/739630/Phasmophobia"},
			{Name: "Rocket League", URL: "https://www.rocketleague.com"},
			{Name: "Roblox", URL: "https://www.roblox.com"},
			{Name: "Dragon Ball", URL: "https://www.toei-animation.com/dragonball"},
			{Name: "Marvel Contest of Champions", URL: "https://playcontestofchampions.com"},
		}},
		{Name: "AI & Technology Platforms", Sites: []scout.SiteSpec{
			{Name: "CharacterAI", URL: "https://character.ai"},
			{Name: "Anthropic", URL: "https://www.anthropic.com"},
			{Name: "OpenAI", URL: "https://openai.com"},
			{Name: "Cursor", URL: "https://www.cursor.com"},
			{Name: "Google Gemini", URL: "https://gemini.google.com"},
		}},
		{Name: "Google Services", Sites: []scout.SiteSpec{
			{Name: "Google", URL: "https://www.google.com"},
			{Name: "Google Cloud", URL: "https://cloud.google.com"},
			{Name: "Google Meet", URL: "https://meet.google.com"},
			{Name: "Gmail", URL: "https://gmail.com"},
			{Name: "Google Nest", URL: "https://store.google.com/category/connected_home"},
			{Name: "Google Maps", URL: "https://maps.google.com"},
		}},
		{Name: "Cloud & Infrastructure", Sites: []scout.SiteSpec{
			{Name: "Amazon Web Services", URL: "https://aws.amazon.com"},
			{Name: "Microsoft Azure", URL: "https://azure.microsoft.com"},
			{Name: "Microsoft 365", URL: "https://www.microsoft365.com"},
			{Name: "Cloudflare", URL: "https://www.cloudflare.com"},
			{Name: "Box", URL: "https://www.box.com"},
			{Name: "NPM", URL: "https://www.npmjs.com"},
		}},
		{Name: "E-commerce & Business", Sites: []scout.SiteSpec{
			{Name: "Etsy", URL: "https://www.etsy.com"},
			{Name: "Shopify", URL: "https://www.shopify.com"},
			{Name: "DoorDash", URL: "https://www.doordash.com"},
			{Name: "Wayfair", URL: "https://www.wayfair.com"},
		}},
		{Name: "Business Tools & Services", Sites: []scout.SiteSpec{
			{Name: "UPS", URL: "https://www.ups.com"},
			{Name: "USPS", URL: "https://www.usps.com"},
			{Name: "T-Mobile", URL: "https://www.t-mobile.com"},
			{Name: "Mailchimp", URL: "https://mailchimp.com"},
			{Name: "Dialpad", URL: "https://www.dialpad.com"},
			{Name: "Zoom", URL: "https://zoom.us"},
			{Name: "Calendly", URL: "https://calendly.com"},
		}},
		{Name: "Smart Home & IoT", Sites: []scout.SiteSpec{
			{Name: "Ecobee", URL: "https://www.ecobee.com"},
			{Name: "Fitbit", URL: "https://www.fitbit.com"},
		}},
		{Name: "Specialized Business Software", Sites: []scout.SiteSpec{
			{Name: "HighLevel", URL: "https://www.gohighlevel.com"},
			{Name: "Clover POS Systems", URL: "https://www.clover.com"},
			{Name: "Procore", URL: "https://www.procore.com"},
		}},
		{Name: "Education & Development", Sites: []scout.SiteSpec{
			{Name: "Khan Academy", URL: "https://www.khanacademy.org"},
			{Name: "DeviantArt", URL: "https://www.deviantart.com"},
		}},
		{Name: "Finance & Banking", Sites: []scout.SiteSpec{
			{Name: "Dave", URL: "https://dave.com"},
		}},
	})
}
