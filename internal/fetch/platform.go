// Package fetch - platform.go detects French job boards and their selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board.
type Platform string

const (
	// PlatformIndeed is fr.indeed.com and other Indeed country sites
	PlatformIndeed Platform = "indeed"
	// PlatformWelcomeToTheJungle is welcometothejungle.com
	PlatformWelcomeToTheJungle Platform = "welcometothejungle"
	// PlatformHelloWork is hellowork.com
	PlatformHelloWork Platform = "hellowork"
	// PlatformLinkedIn is linkedin.com job views
	PlatformLinkedIn Platform = "linkedin"
	// PlatformFranceTravail is francetravail.fr (formerly pole-emploi.fr)
	PlatformFranceTravail Platform = "francetravail"
	// PlatformAPEC is apec.fr
	PlatformAPEC Platform = "apec"
	// PlatformUnknown is an unrecognized site
	PlatformUnknown Platform = "unknown"
)

// platformHosts maps a host suffix to its platform.
var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"indeed.com", PlatformIndeed},
	{"indeed.fr", PlatformIndeed},
	{"welcometothejungle.com", PlatformWelcomeToTheJungle},
	{"hellowork.com", PlatformHelloWork},
	{"linkedin.com", PlatformLinkedIn},
	{"francetravail.fr", PlatformFranceTravail},
	{"pole-emploi.fr", PlatformFranceTravail},
	{"apec.fr", PlatformAPEC},
}

// DetectPlatform identifies the job board from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		if host == p.suffix || strings.HasSuffix(host, "."+p.suffix) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a specific platform,
// most specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformIndeed:
		return []string{
			".jobsearch-JobComponent",
			"#jobDescriptionText",
			".jobsearch-jobDescriptionText",
		}
	case PlatformWelcomeToTheJungle:
		return []string{
			"[data-testid='job-section-description']",
			"main",
		}
	case PlatformHelloWork:
		return []string{
			"[data-cy='jobDescription']",
			"main",
		}
	case PlatformLinkedIn:
		return []string{
			".top-card-layout__entity-info",
			".show-more-less-html__markup",
			".description__text",
		}
	case PlatformFranceTravail:
		return []string{
			"#detailOffreVolet",
			".modal-details",
			".description-offre",
		}
	case PlatformAPEC:
		return []string{
			".details-offer",
			".container-offer",
		}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Application forms
		"form",
		".application-form",
		".apply-button-container",

		// Social and share buttons
		".social-share",
		".share-buttons",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		"#didomi-host",
		"#axeptio_overlay",
	}

	switch platform {
	case PlatformIndeed:
		return append(common,
			"#jobsearch-ViewJobButtons-container",
			".jobsearch-RelatedLinks",
		)
	case PlatformWelcomeToTheJungle:
		return append(common,
			"[data-testid='job-section-similar-jobs']",
			"[data-testid='company-section']",
		)
	case PlatformLinkedIn:
		return append(common,
			".similar-jobs",
			".show-more-less-html__button",
			".sign-up-modal",
		)
	case PlatformFranceTravail:
		return append(common,
			".block-other-offers",
		)
	default:
		return common
	}
}
