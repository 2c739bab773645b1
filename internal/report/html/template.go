package html

// ReportTemplate renders the per-student results table and the attainment
// matrix as a single printable page, sized for A3 landscape.
const ReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
    @page { size: A3 landscape; margin: 1cm; }
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #333; font-size: 10px; margin: 0; }
    .container { padding: 20px; }
    .header { text-align: center; margin-bottom: 20px; border-bottom: 2px solid #002060; padding-bottom: 10px; }
    .header h1 { color: #002060; margin: 0; font-size: 20px; }
    .header h2 { margin: 5px 0; font-size: 14px; color: #555; }

    .meta-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 10px; margin-bottom: 20px; background: #f9f9f9; padding: 10px; border-radius: 5px; }
    .meta-item b { color: #002060; }

    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; table-layout: fixed; }
    th, td { border: 1px solid #ddd; padding: 5px; text-align: center; overflow: hidden; text-overflow: ellipsis; }
    th { background: #002060; color: white; font-weight: bold; font-size: 9px; }
    .sub-header { background: #f2f2f2; font-weight: bold; color: #333; }
    .co-title { background: #002060; color: white; }

    .name-col { text-align: left; width: 150px; }
    .sno-col { width: 30px; }
    .reg-col { width: 100px; }

    .attainment-matrix { margin-top: 40px; page-break-before: always; }
    .attainment-matrix h2 { color: #002060; border-left: 5px solid #002060; padding-left: 10px; }
    .matrix-table td:first-child { text-align: left; font-weight: bold; background: #f2f2f2; width: 250px; }
    .overall-attainment { background: #FF8C00 !important; color: white !important; }

    .final-box { margin-top: 20px; padding: 15px; text-align: center; font-size: 16px; font-weight: bold; background: #fffde7; border: 2px solid #002060; }
</style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>{{.Institution}}</h1>
        <h2>{{.Title}}</h2>
    </div>

    <div class="meta-grid">
        <div class="meta-item"><b>Course:</b> {{.CourseCode}}</div>
        <div class="meta-item"><b>Name:</b> {{.CourseName}}</div>
        <div class="meta-item"><b>Total Students:</b> {{.TotalStudents}}</div>
    </div>

    <table>
        <thead>
            <tr>
                <th rowspan="2" class="sno-col">S.No</th>
                <th rowspan="2" class="reg-col">Register No</th>
                <th rowspan="2" class="name-col">Name</th>
                {{range .COLabels}}<th colspan="4" class="co-title">{{.}}</th>{{end}}
            </tr>
            <tr class="sub-header">
                {{range .COLabels}}<td>CIA</td><td>ASS</td><td>FINAL %</td><td>STS</td>{{end}}
            </tr>
        </thead>
        <tbody>
            {{range .Students}}
            <tr>
                <td>{{.SNo}}</td>
                <td>{{.RegNo}}</td>
                <td class="name-col">{{.Name}}</td>
                {{range .Results}}<td>{{.CIA}}</td><td>{{.Assessment}}</td><td>{{.Final}}</td><td>{{.Status}}</td>{{end}}
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="attainment-matrix">
        <h2>Attainment Matrix</h2>
        <table class="matrix-table">
            <thead>
                <tr>
                    <th>Method / COs</th>
                    {{range .COLabels}}<th>{{.}}</th>{{end}}
                </tr>
            </thead>
            <tbody>
                {{range .MatrixRows}}
                <tr{{if .Highlight}} class="overall-attainment"{{end}}>
                    <td>{{.Label}}</td>
                    {{range .Values}}<td>{{.}}</td>{{end}}
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>

    <div class="final-box">
        Overall CO Attainment for {{.CourseCode}} - {{.CourseName}} = {{.Overall}}
    </div>
</div>
</body>
</html>`
