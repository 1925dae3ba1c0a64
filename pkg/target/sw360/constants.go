// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sw360

// Project visibilities.
const (
	VisibilityPrivate                  = "PRIVATE"
	VisibilityMeAndModerators          = "ME_AND_MODERATORS"
	VisibilityBusinessUnitAndModerator = "BUISNESSUNIT_AND_MODERATORS"
	VisibilityEveryone                 = "EVERYONE"
)

// Attachment types accepted by the catalog.
const (
	AttachmentDocument                     = "DOCUMENT"
	AttachmentSource                       = "SOURCE"
	AttachmentDesign                       = "DESIGN"
	AttachmentRequirement                  = "REQUIREMENT"
	AttachmentClearingReport               = "CLEARING_REPORT"
	AttachmentComponentLicenseInfoXML      = "COMPONENT_LICENSE_INFO_XML"
	AttachmentComponentLicenseInfoCombined = "COMPONENT_LICENSE_INFO_COMBINED"
	AttachmentScanResultReport             = "SCAN_RESULT_REPORT"
	AttachmentScanResultReportXML          = "SCAN_RESULT_REPORT_XML"
	AttachmentSourceSelf                   = "SOURCE_SELF"
	AttachmentBinary                       = "BINARY"
	AttachmentBinarySelf                   = "BINARY_SELF"
	AttachmentDecisionReport               = "DECISION_REPORT"
	AttachmentLegalEvaluation              = "LEGAL_EVALUATION"
	AttachmentLicenseAgreement             = "LICENSE_AGREEMENT"
	AttachmentScreenshot                   = "SCREENSHOT"
	AttachmentOther                        = "OTHER"
	AttachmentReadmeOSS                    = "README_OSS"
)

const (
	MediaTypeZip  = "application/zip"
	MediaTypeXML  = "application/xml"
	MediaTypeText = "text/plain"
	MediaTypeJSON = "application/json"
	mediaTypeHAL  = "application/hal+json"
)

const (
	RelationshipContained = "CONTAINED"
	MainlineStateMainline = "MAINLINE"

	ComponentTypeOSS = "OSS"
)

// sessionCookie is sent on every mutating request.
const sessionCookie = "COOKIE_SUPPORT=true; GUEST_LANGUAGE_ID=en_US"

const (
	pathProjects   = "projects"
	pathComponents = "components"
	pathReleases   = "releases"
)
