package emlak

import "strings"

const (
	// IndexURL is the listing index page.
	IndexURL = "https://emlaksiteniz.com/urunler"

	ListingLinksXPath  = "//div[@class='product-item']//div[@class='ratio ratio-product-box']//a"
	TitleXPath         = "//h1[@class='product-title']"
	PriceXPath         = "//strong[@class='lbl-price']"
	BreadcrumbXPath    = "//nav[@class='nav-breadcrumb']//a"
	AdvisorXPath       = "//div[contains(text(),'Danışman')]//a"
	DescriptionXPath   = "//div[@class='description']"
	LocationXPath      = "//td[contains(text(),'İlan Konumu')]//parent::tr//td[@class='td-right']"
	AdNumberXPath      = "//p[contains(text(),'İlan ID')]"
	GalleryImagesXPath = "//div[@id='product_thumbnails_slider']//div[@class='item-inner']//img"
	FeaturesTabXPath   = "//li[@class='nav-item']//a[contains(text(),'İlan Özellikleri')]"
	FeaturesTableXPath = "//table[@class='table table-striped table-product-additional-information']//td"
	DetailReadyXPath   = "//*[contains(concat(' ', normalize-space(@class), ' '), ' product-item ')]"
	LinkAttr           = "href"
	ImageAttr          = "src"
)

// Labels shown next to attribute values on a detail page.
const (
	LabelGrossArea    = "Brüt m²"
	LabelNetArea      = "Net m²"
	LabelRooms        = "Oda Sayısı"
	LabelBathrooms    = "Banyo Sayısı"
	LabelKitchen      = "Mutfak"
	LabelBalcony      = "Balkon"
	LabelLift         = "Asansör"
	LabelFurnished    = "Eşyalı"
	LabelUsageStatus  = "Kullanım Durumu"
	LabelDues         = "Aidat"
	LabelCredit       = "Krediye Uygun"
	LabelDeedStatus   = "Tapu Durumu"
	LabelExchangeable = "Takaslı"
	LabelBuildingAge  = "Bina Yaşı"
	LabelHeating      = "Isıtma"
	LabelFloorLocated = "Bulunduğu Kat"
	LabelFloorCount   = "Kat Sayısı"
	LabelFromWhom     = "Kimden"
)

// LabelValueXPath selects the value span sitting next to label in the
// label/value rows of a detail page.
func LabelValueXPath(label string) string {
	return "//label[contains(text()," + xpathLiteral(label) + ")]//ancestor::div[2]//div[@class='right']//span"
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
