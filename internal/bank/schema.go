package bank

// bankSchema is the JSON schema every bank file is checked against before
// it is decoded.
const bankSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "title", "version", "questions"],
  "properties": {
    "id": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "version": {"type": "string"},
    "preset": {"enum": ["generic", "law"]},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/question"}
    }
  },
  "$defs": {
    "question": {
      "type": "object",
      "required": ["id", "kind", "prompt"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "kind": {"enum": ["multiple-choice", "type-in", "find-incorrect", "match-pairs"]},
        "prompt": {"type": "string", "minLength": 1},
        "options": {"type": "array", "items": {"type": "string"}},
        "answerIndex": {"type": "integer", "minimum": 0},
        "answer": {"type": "string"},
        "incorrect": {"type": "array", "items": {"type": "integer", "minimum": 0}},
        "pairs": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["term", "definition"],
            "properties": {
              "term": {"type": "string", "minLength": 1},
              "definition": {"type": "string", "minLength": 1}
            }
          }
        },
        "explanation": {"type": "string"},
        "shortExplanation": {"type": "string"}
      },
      "allOf": [
        {
          "if": {"properties": {"kind": {"const": "multiple-choice"}}},
          "then": {"required": ["options", "answerIndex"]}
        },
        {
          "if": {"properties": {"kind": {"const": "type-in"}}},
          "then": {"required": ["answer"], "properties": {"answer": {"minLength": 1}}}
        },
        {
          "if": {"properties": {"kind": {"const": "find-incorrect"}}},
          "then": {"required": ["options", "incorrect"]}
        },
        {
          "if": {"properties": {"kind": {"const": "match-pairs"}}},
          "then": {"required": ["pairs"], "properties": {"pairs": {"minItems": 2}}}
        }
      ]
    }
  }
}`
