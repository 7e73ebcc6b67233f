package rxpdf

// Layout places every element of doc on the page in a fixed order: header,
// signature (when ok), patient block, items, observations, footer. The same
// inputs always produce the same primitives.
func Layout(doc Document, sig Signature, ok bool) []Primitive {
	var out []Primitive
	out = append(out, header(doc.Clinic)...)
	if ok {
		out = append(out, signature(sig))
	}

	prims, cur := patientBlock(At(patientTop), doc)
	out = append(out, prims...)

	prims, cur = items(cur.Down(sectionGap), doc)
	out = append(out, prims...)

	prims, _ = observations(cur.Down(sectionGap), doc)
	out = append(out, prims...)

	return append(out, footer()...)
}

func header(c Clinic) []Primitive {
	values := [...]string{c.Header, c.Doctor, c.License, c.Address, phoneCity(c.Phone, c.City)}
	out := make([]Primitive, 0, len(values))
	for i, v := range values {
		f := headerFont
		if i == 0 {
			f = headerTitleFont
		}
		out = append(out, Text{X: marginLeft, Y: fromTop(headerLines[i]), Value: v, Font: f})
	}
	return out
}

func signature(sig Signature) Primitive {
	return Image{X: signatureX, Y: signatureY, W: signatureW, H: signatureH, Asset: sig}
}

// patientBlock returns the cursor on the last line it wrote.
func patientBlock(cur Cursor, doc Document) ([]Primitive, Cursor) {
	out := []Primitive{Text{X: marginLeft, Y: cur.Y, Value: titleText, Font: titleFont}}

	lines := []string{
		doc.PatientName,
		orPlaceholder(doc.NationalID) + " | " + orPlaceholder(doc.BirthDate),
		doc.IssuedAt,
	}
	for _, l := range lines {
		cur = cur.Down(lineStep)
		out = append(out, Text{X: marginLeft, Y: cur.Y, Value: l, Font: bodyFont})
	}
	return out, cur
}

func items(cur Cursor, doc Document) ([]Primitive, Cursor) {
	return Flow(cur, marginLeft, doc.ItemLines(), bodyFont)
}

func observations(cur Cursor, doc Document) ([]Primitive, Cursor) {
	out := []Primitive{Text{X: marginLeft, Y: cur.Y, Value: observationLabel, Font: labelFont}}
	lines := doc.ObservationLines()
	if len(lines) == 0 {
		return out, cur
	}
	body, next := Flow(cur.Down(obsBodyGap), marginLeft, lines, bodyFont)
	return append(out, body...), next
}

// footer is anchored to the page, not to the cursor.
func footer() []Primitive {
	return []Primitive{
		Text{X: marginLeft, Y: footerLabelY, Value: footerLabel, Font: footerFont},
		Line{X1: footerRuleFrom, Y1: footerRuleY, X2: footerRuleTo, Y2: footerRuleY},
		Text{X: footerCaptionX, Y: footerRuleY, Value: footerCaption, Font: footerFont, Align: AlignRight},
	}
}
