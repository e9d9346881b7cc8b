package spec

import (
	"fmt"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

// basePreamble is the permanent instruction block shared by every item
// type. Passages are English; questions and explanations are Korean.
const basePreamble = `You are an expert CSAT English item writer for Korea's College Scholastic Ability Test.
Permanent rules:
1) Passages in English; question text and explanations in Korean.
2) Audience: Korean high-school CSAT takers; align with the national curriculum.
3) Every item has 5 options with exactly one correct answer and four plausible distractors.
4) Return well-formed JSON for downstream validation. No extra commentary, no markdown.
Later, item-specific instructions take priority over these rules for that item.`

// userPromptHeader is prepended to every per-type template body.
const userPromptHeader = `Item type: {{.Code}} ({{.Title}})
Difficulty: {{.Difficulty}}
Topic: {{.Topic}}
{{- if .Interest}}
Learner interest: {{.Interest}}{{end}}
{{- if .Passage}}
Passage (use ONLY this passage; do NOT invent or substitute a new one):
{{.Passage}}
{{- else}}
No passage provided: write a new {{.MinWords}}-{{.MaxWords}} word English passage appropriate for this item type.
{{- end}}

`

func mcqSystem(code itemtype.Code, title string) string {
	return fmt.Sprintf("CSAT English %s (%s). "+
		"Return ONLY JSON matching the schema. Use ONLY the provided passage. "+
		"The field 'correct_answer' MUST be the option number as a string \"1\"-\"5\". "+
		"If you provide option text instead, it will be converted to the matching option number.",
		code, title)
}

const mcqOutputShape = `Output JSON with exactly these fields:
{"question": "...", "passage": "...", "options": ["...","...","...","...","..."], "correct_answer": "1"-"5", "explanation": "..."}
Options are Korean statements without leading numbering or markers (no ①-⑤, no "1.", no bullets).`

type promptDef struct {
	title    string
	system   string
	body     string
	minWords int
	maxWords int
}

// promptTable is the built-in prompt bundle, one entry per item type.
// Bodies follow the official CSAT stems; the header above supplies the
// shared difficulty/topic/passage context.
var promptTable = map[itemtype.Code]promptDef{
	itemtype.RC18: {
		title:  "목적 파악",
		system: mcqSystem(itemtype.RC18, "Purpose"),
		body: `Write a formal letter or e-mail (100-130 words) whose purpose must be inferred.
Stem: "다음 글의 목적으로 가장 적절한 것은?"
Options end with "~하려고" and cover: the true purpose, a secondary purpose, an unmentioned purpose, and an opposite purpose.
` + mcqOutputShape,
		minWords: 100, maxWords: 130,
	},
	itemtype.RC19: {
		title:  "심경 변화",
		system: mcqSystem(itemtype.RC19, "Mood Change"),
		body: `Write a narrative passage (110-140 words) in which the narrator's feeling clearly shifts once.
Stem: "다음 글에 드러난 필자의 심경 변화로 가장 적절한 것은?"
Options are Korean emotion pairs like "긴장한 → 안도한"; exactly one matches the shift in the passage.
` + mcqOutputShape,
		minWords: 110, maxWords: 140,
	},
	itemtype.RC20: {
		title:  "주장 파악",
		system: mcqSystem(itemtype.RC20, "Claim"),
		body: `Write an argumentative passage (130-160 words) with modal or prescriptive language (should, must, need to).
Stem: "다음 글에서 필자가 주장하는 바로 가장 적절한 것은?"
Options end with "~해야 한다"; distractors include partial claims and an overgeneralized claim.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC21: {
		title:  "함축 의미 추론",
		system: mcqSystem(itemtype.RC21, "Implied Meaning"),
		body: `Write an expository passage (130-160 words) containing one figurative phrase wrapped as <u>...</u>.
Stem: "밑줄 친 부분이 다음 글에서 의미하는 바로 가장 적절한 것은?"
Options are English paraphrases of the underlined phrase; only one fits the author's intent in context.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC22: {
		title:  "요지 파악",
		system: mcqSystem(itemtype.RC22, "Main Point"),
		body: `Write an explanatory passage (140-170 words) whose main point requires integrating the whole text, not just the first sentence. Use one structure: common belief then rebuttal, problem then solution, or evidence then conclusion.
Stem: "다음 글의 요지로 가장 적절한 것은?"
Distractors include the common belief, a subordinate point, a related but non-central statement, and the opposite of the main point.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC23: {
		title:  "주제 파악",
		system: mcqSystem(itemtype.RC23, "Topic"),
		body: `Write an academic passage (140-170 words) with a single controlling topic.
Stem: "다음 글의 주제로 가장 적절한 것은?"
Options are English noun phrases; distractors are too broad, too narrow, or off-topic.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC24: {
		title:  "제목 추론",
		system: mcqSystem(itemtype.RC24, "Title"),
		body: `Write an expository passage (140-170 words) suited to a catchy but accurate title.
Stem: "다음 글의 제목으로 가장 적절한 것은?"
Options are English titles; exactly one captures the central idea without overreach.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC25: {
		title:  "도표 이해",
		system: mcqSystem(itemtype.RC25, "Chart Comprehension"),
		body: `Describe a chart or table with concrete figures (percentages, counts, years) in a 110-140 word passage of numbered statements.
Stem: "다음 도표의 내용과 일치하지 않는 것은?"
Exactly one numbered statement contradicts the figures; the options reference the statements.
Include a "chart_description" field summarizing the underlying data.
` + mcqOutputShape,
		minWords: 110, maxWords: 140,
	},
	itemtype.RC26: {
		title:  "세부 내용 파악 (인물)",
		system: mcqSystem(itemtype.RC26, "Biographical Detail"),
		body: `Write a biographical passage (130-160 words) about a person, with concrete life facts (dates, works, achievements).
Stem: "다음 글의 내용과 일치하지 않는 것은?"
Options are Korean statements about the person; exactly one contradicts the passage.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC27: {
		title:  "안내문 이해 (불일치)",
		system: mcqSystem(itemtype.RC27, "Notice Mismatch"),
		body: `Write a practical notice or announcement (90-120 words) with concrete details: dates, times, fees, registration, locations.
Stem: "안내문의 내용과 일치하지 않는 것은?"
Exactly one option contradicts a stated detail.
` + mcqOutputShape,
		minWords: 90, maxWords: 120,
	},
	itemtype.RC28: {
		title:  "안내문 이해 (일치)",
		system: mcqSystem(itemtype.RC28, "Notice Match"),
		body: `Write a practical notice or announcement (90-120 words) with concrete details.
Stem: "안내문의 내용과 일치하는 것은?"
Exactly one option matches a stated detail; the other four contradict or are unmentioned.
` + mcqOutputShape,
		minWords: 90, maxWords: 120,
	},
	itemtype.RC29: {
		title:  "어법 판단",
		system: mcqSystem(itemtype.RC29, "Grammar"),
		body: `Write an expository passage (130-160 words) with five underlined grammatical elements marked as <u>...</u>, one per option.
Stem: "다음 글의 밑줄 친 부분 중, 어법상 틀린 것은?"
Exactly one underlined element is ungrammatical in context; test distinct grammar points (agreement, participles, relatives, parallelism, voice).
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC30: {
		title:  "어휘 적절성",
		system: mcqSystem(itemtype.RC30, "Lexical Appropriateness"),
		body: `Write an expository passage (130-160 words) with five underlined content words marked as <u>...</u>.
Stem: "다음 글의 밑줄 친 낱말 중, 문맥상 쓰임이 적절하지 않은 것은?"
Exactly one underlined word is contextually wrong (often a near-antonym of the intended word).
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC31: {
		title:  "빈칸 추론 (단어)",
		system: mcqSystem(itemtype.RC31, "Blank - Word") +
			" Insert exactly ONE visible blank marker as '_____'. Options should be single words or short noun phrases.",
		body: `Write an academic passage (140-170 words) with exactly one blank marked '_____' where a key word belongs.
Stem: "다음 빈칸에 들어갈 말로 가장 적절한 것은?"
Options are single English words or short noun phrases; only one restores the passage's logic.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC32: {
		title:  "빈칸 추론 (구)",
		system: mcqSystem(itemtype.RC32, "Blank - Phrase") +
			" Insert exactly ONE visible blank marker as '_____'.",
		body: `Write an academic passage (140-170 words) with exactly one blank marked '_____' where a phrase belongs.
Stem: "다음 빈칸에 들어갈 말로 가장 적절한 것은?"
Options are English phrases (3-7 words); only one completes the argument.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC33: {
		title:  "빈칸 추론 (절)",
		system: mcqSystem(itemtype.RC33, "Blank - Clause") +
			" Insert exactly ONE visible blank marker as '_____'.",
		body: `Write a dense academic passage (150-180 words) with exactly one blank marked '_____' where a full clause belongs, usually carrying the conclusion.
Stem: "다음 빈칸에 들어갈 말로 가장 적절한 것은?"
Options are English clauses; only one is consistent with the passage's reasoning.
` + mcqOutputShape,
		minWords: 150, maxWords: 180,
	},
	itemtype.RC34: {
		title:  "빈칸 추론 (심화)",
		system: mcqSystem(itemtype.RC34, "Blank - Advanced") +
			" Insert exactly ONE visible blank marker as '_____'.",
		body: `Write an abstract academic passage (150-180 words) with one blank marked '_____' at a pivotal point in the argument.
Stem: "다음 빈칸에 들어갈 말로 가장 적절한 것은?"
Options are sophisticated English completions; distractors are locally plausible but globally inconsistent.
` + mcqOutputShape,
		minWords: 150, maxWords: 180,
	},
	itemtype.RC35: {
		title:  "무관한 문장 찾기",
		system: mcqSystem(itemtype.RC35, "Irrelevant Sentence"),
		body: `Write a unified paragraph of five numbered sentences (130-160 words total) on one topic.
Stem: "다음 글에서 전체 흐름과 관계 없는 문장은?"
Exactly one sentence is on-topic in vocabulary but off the paragraph's line of argument; options are the sentence numbers.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC36: {
		title:  "글의 순서 (기본)",
		system: mcqSystem(itemtype.RC36, "Paragraph Order - Basic"),
		body: `Write an opening paragraph followed by three paragraphs labeled (A), (B), (C) whose correct order must be inferred from connectives and reference chains. Total 140-170 words.
Stem: "주어진 글 다음에 이어질 글의 순서로 가장 적절한 것은?"
Options are orderings like "(A)-(C)-(B)"; exactly one is coherent.
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC37: {
		title:  "글의 순서 (심화)",
		system: mcqSystem(itemtype.RC37, "Paragraph Order - Advanced"),
		body: `Write an opening paragraph followed by three paragraphs labeled (A), (B), (C) with subtle cohesion cues (pronoun chains, contrastive connectives). Total 150-180 words.
Stem: "주어진 글 다음에 이어질 글의 순서로 가장 적절한 것은?"
Options are orderings like "(A)-(C)-(B)"; exactly one is coherent.
` + mcqOutputShape,
		minWords: 150, maxWords: 180,
	},
	itemtype.RC38: {
		title:  "문장 삽입 (기본)",
		system: mcqSystem(itemtype.RC38, "Sentence Insertion - Basic"),
		body: `Write a given sentence in a box, then a passage (130-160 words) with five insertion points marked (1)-(5).
Stem: "글의 흐름으로 보아, 주어진 문장이 들어가기에 가장 적절한 곳은?"
Exactly one insertion point preserves cohesion; options are the point numbers.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
	itemtype.RC39: {
		title:  "문장 삽입 (심화)",
		system: mcqSystem(itemtype.RC39, "Sentence Insertion - Advanced"),
		body: `Write a given sentence in a box, then a dense passage (140-170 words) with five insertion points marked (1)-(5). The given sentence carries a connective that only fits one gap.
Stem: "글의 흐름으로 보아, 주어진 문장이 들어가기에 가장 적절한 곳은?"
` + mcqOutputShape,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC40: {
		title:  "요약문 완성",
		system: fmt.Sprintf("CSAT English %s (Summary Completion). "+
			"Return ONLY a syntactically complete JSON object with fields "+
			"{question, passage, summary_template, options[5], correct_answer('1'..'5'), explanation}. "+
			"summary_A and summary_B are OPTIONAL helper fields. Use ONLY the provided passage. "+
			"Do NOT truncate arrays or leave dangling commas or quotes.", itemtype.RC40),
		body: `Write an academic passage (140-170 words), then a one-sentence English summary with two blanks (A) and (B).
Stem: "다음 글의 내용을 한 문장으로 요약하고자 한다. 빈칸 (A), (B)에 들어갈 말로 가장 적절한 것은?"
Options are five "(A) word - (B) word" pairs; exactly one pair completes the summary correctly.
Output JSON fields: question, passage, summary_template (the summary with (A)/(B) blanks), options[5], correct_answer "1"-"5", explanation.`,
		minWords: 140, maxWords: 170,
	},
	itemtype.RC4142: {
		title: "장문 독해 (41-42 세트)",
		system: "CSAT English RC41-RC42 (Reading SET). Return ONLY JSON; no markdown. " +
			"Use ONLY the provided passage for content; do NOT invent a new passage. " +
			"Q41: title. Q42: one contextually inappropriate vocabulary among (a)-(e).",
		body: `Write a long passage (250-320 words) with five content words labeled and underlined as (a) <u>word</u> through (e) <u>word</u>; exactly one is contextually wrong.
Then produce TWO questions:
- Q41, stem "윗글의 제목으로 가장 적절한 것은?", five English title options.
- Q42, stem "밑줄 친 (a)~(e) 중에서 문맥상 낱말의 쓰임이 적절하지 않은 것은?", options ["(a)","(b)","(c)","(d)","(e)"].
Output JSON: {"set_instruction": "[41~42] 다음 글을 읽고, 물음에 답하시오.", "passage": "...", "questions": [{"question_number": 41, "question": "...", "options": [...], "correct_answer": "1"-"5", "explanation": "..."}, {"question_number": 42, ...}]}`,
		minWords: 250, maxWords: 320,
	},
	itemtype.RC4345: {
		title: "장문 독해 (43-45 세트)",
		system: "CSAT English RC43-RC45 (Long Reading SET). Return ONLY JSON; no markdown. " +
			"Four paragraphs (A)-(D); Q43 paragraph order, Q44 referent resolution over (a)-(e) underlined pronouns, Q45 content accuracy. " +
			"Exactly one pronoun among (a)-(e) refers to a different same-gender character.",
		body: `Write a four-paragraph narrative, paragraphs labeled A-D (95-115 words each). Use two same-gender characters. Insert five labeled underlined pronouns: one each in (A), (B), (C) and two in (D), formatted "(a) <u>he</u>" with the label before the pronoun. Four pronouns refer to the main character, one to the other character.
Produce THREE questions:
- Q43, stem "주어진 글 (A)에 이어질 내용을 순서에 맞게 배열한 것으로 가장 적절한 것은?", options like "(B)-(D)-(C)".
- Q44, stem "밑줄 친 (a)~(e) 중에서 가리키는 대상이 나머지 넷과 다른 것은?", options ["(a)","(b)","(c)","(d)","(e)"].
- Q45, stem "윗글에 관한 내용으로 적절하지 않은 것은?", five Korean statements, exactly one false.
Output JSON: {"set_instruction": "[43~45] 다음 글을 읽고, 물음에 답하시오.", "passage_parts": {"A": "...", "B": "...", "C": "...", "D": "..."}, "questions": [three question objects with question_number 43, 44, 45]}`,
		minWords: 400, maxWords: 450,
	},
	itemtype.RCGeneric: {
		title:  "일반 독해",
		system: mcqSystem(itemtype.RCGeneric, "Generic Reading MCQ"),
		body: `Write a reading comprehension item with a 130-160 word passage and a five-option Korean question appropriate to the passage content.
` + mcqOutputShape,
		minWords: 130, maxWords: 160,
	},
}
