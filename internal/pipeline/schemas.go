package pipeline

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const (
	stringArray    = `{"type":["array","null"],"items":{"type":"string"}}`
	nullableString = `{"type":["string","null"]}`
)

const interviewProps = `
  "technical_questions": ` + stringArray + `,
  "behavioral_questions": ` + stringArray + `,
  "situational_questions": ` + stringArray + `,
  "cultural_fit_questions": ` + stringArray + `,
  "gap_assessment_questions": ` + stringArray + `,
  "interview_duration": {"type":["string","null"]},
  "panel_composition": {"type":["string","null"]},
  "evaluation_criteria": {"type":["string","null"]}`

const evaluationSchema = `{
 "type":"object",
 "required":["candidate_name","overall_score","qualification_tag"],
 "properties":{
  "candidate_name":{"type":"string"},
  "overall_score":{"type":["number","string"]},
  "qualification_tag":{"type":"string"},
  "category_scores":{"type":"object","additionalProperties":{"type":["number","string","null"]}},
  "strengths":` + stringArray + `,
  "areas_of_concern":` + stringArray + `,
  "recommendations":{"type":["string","null"]},
  "critical_requirements_unmet":` + stringArray + `,
  "interview_questions":{"type":"object","properties":{` + interviewProps + `}}
 }
}`

var stageSchemas = map[StageID]string{
	StageResumeExtraction: `{
 "type":"object",
 "required":["candidate_name","skills"],
 "properties":{
  "candidate_name":{"type":["string","null"]},
  "email":{"type":["string","null"]},
  "phone":{"type":["string","null"]},
  "years_experience":{"type":["number","string","null"]},
  "skills":{"type":"object","properties":{"technical":` + stringArray + `,"soft":` + stringArray + `,"domain":` + stringArray + `}},
  "education":{"type":["array","null"],"items":{"type":"object","properties":{"degree":` + nullableString + `,"institution":` + nullableString + `}}},
  "work_history":{"type":["array","null"],"items":{"type":"object","properties":{"company":` + nullableString + `,"title":` + nullableString + `,"start":` + nullableString + `,"end":` + nullableString + `}}},
  "certifications":{"type":["array","null"],"items":{"type":"string"}}
 }
}`,
	StageJobExtraction: `{
 "type":"object",
 "required":["Role Information"],
 "properties":{
  "Role Information":{"type":"object","properties":{"Job Title":` + nullableString + `,"Level":` + nullableString + `,"Department":` + nullableString + `,"Reporting Structure":` + nullableString + `,"Employment Type":` + nullableString + `,"Locations":` + stringArray + `}},
  "Experience Requirements":{"type":"object","properties":{"Years of Experience":{"type":["object","null"]},"Specific Industry Experience":` + stringArray + `,"Previous Role Requirements":` + stringArray + `}},
  "Skills and Competencies":{"type":"object","properties":{"Must-have Technical Skills":` + stringArray + `,"Nice-to-have Technical Skills":` + stringArray + `,"Required Soft Skills":` + stringArray + `,"Leadership/Management Requirements":` + stringArray + `}},
  "Education and Certifications":{"type":"object","properties":{"Degree Requirements":` + stringArray + `,"Preferred Certifications":` + stringArray + `,"Professional Licenses Needed":` + stringArray + `}},
  "Key Responsibilities":{"type":"object","properties":{"Primary Duties and Accountabilities":` + stringArray + `,"Success Metrics and KPIs":` + stringArray + `,"Team Size or Budget Responsibility":` + nullableString + `}},
  "Company and Culture":{"type":"object","properties":{"Company Size":` + nullableString + `,"Industry":` + nullableString + `,"Work Environment and Culture":` + stringArray + `,"Growth Opportunities":` + stringArray + `}},
  "Requirement Priority":{"type":"object","properties":{"Critical":` + stringArray + `,"Important":` + stringArray + `,"Preferred":` + stringArray + `}}
 }
}`,
	StageEvaluation: evaluationSchema,
	StageInterviewDesign: `{
 "type":"object",
 "properties":{"strategy":{"type":["string","null"]},` + interviewProps + `}
}`,
	StageQualityReview: evaluationSchema,
}

var compiledSchemas = mustCompileSchemas()

func mustCompileSchemas() map[StageID]*gojsonschema.Schema {
	out := make(map[StageID]*gojsonschema.Schema, len(stageSchemas))
	for id, src := range stageSchemas {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("schema for %s invalid: %v", id, err))
		}
		out[id] = s
	}
	return out
}

// ValidateStageOutput checks raw against the schema of stage id.
// Violations are reported as domain.ErrSchemaInvalid with field paths.
func ValidateStageOutput(id StageID, raw []byte) error {
	schema, ok := compiledSchemas[id]
	if !ok {
		return fmt.Errorf("%w: no schema for stage %s", domain.ErrInternal, id)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, field+": "+desc.Description())
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrSchemaInvalid, id, strings.Join(msgs, "; "))
}
